package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"landshare/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrDisputeNotFound = errors.New("dispute not found")

	// ErrVersionConflict is returned when a version-guarded update matched
	// zero rows: another writer committed first.
	ErrVersionConflict = errors.New("dispute version conflict")
)

type DisputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

type disputeModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	BookingID       int64      `gorm:"column:booking_id;index"`
	FiledByID       int64      `gorm:"column:filed_by_id"`
	Reason          string     `gorm:"column:reason"`
	Description     string     `gorm:"column:description"`
	Evidence        *string    `gorm:"column:evidence"`
	RequestedAmount *float64   `gorm:"column:requested_amount"`
	Status          string     `gorm:"column:status"`
	Resolution      *string    `gorm:"column:resolution"`
	ResolutionNotes *string    `gorm:"column:resolution_notes"`
	ResolvedAmount  *float64   `gorm:"column:resolved_amount"`
	ResolvedByID    *int64     `gorm:"column:resolved_by_id"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at"`
	Version         int64      `gorm:"column:version"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (disputeModel) TableName() string { return "disputes" }

type disputeMessageModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	DisputeID   int64     `gorm:"column:dispute_id;index"`
	SenderID    int64     `gorm:"column:sender_id"`
	Content     string    `gorm:"column:content"`
	Attachments *string   `gorm:"column:attachments"`
	IsInternal  bool      `gorm:"column:is_internal"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (disputeMessageModel) TableName() string { return "dispute_messages" }

func marshalRefs(refs []string) *string {
	if len(refs) == 0 {
		return nil
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func unmarshalRefs(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(*raw), &refs); err != nil {
		return nil
	}
	return refs
}

func toDomainDispute(m disputeModel) *domain.Dispute {
	d := &domain.Dispute{
		ID:              m.ID,
		BookingID:       m.BookingID,
		FiledByID:       m.FiledByID,
		Reason:          domain.DisputeReason(m.Reason),
		Description:     m.Description,
		Evidence:        unmarshalRefs(m.Evidence),
		RequestedAmount: m.RequestedAmount,
		Status:          domain.DisputeStatus(m.Status),
		ResolvedAmount:  m.ResolvedAmount,
		ResolvedByID:    m.ResolvedByID,
		ResolvedAt:      m.ResolvedAt,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Resolution != nil {
		res := domain.DisputeResolution(*m.Resolution)
		d.Resolution = &res
	}
	if m.ResolutionNotes != nil {
		d.ResolutionNotes = *m.ResolutionNotes
	}
	return d
}

func toDisputeModel(d *domain.Dispute) disputeModel {
	m := disputeModel{
		ID:              d.ID,
		BookingID:       d.BookingID,
		FiledByID:       d.FiledByID,
		Reason:          string(d.Reason),
		Description:     d.Description,
		Evidence:        marshalRefs(d.Evidence),
		RequestedAmount: d.RequestedAmount,
		Status:          string(d.Status),
		ResolvedAmount:  d.ResolvedAmount,
		ResolvedByID:    d.ResolvedByID,
		ResolvedAt:      d.ResolvedAt,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Resolution != nil {
		res := string(*d.Resolution)
		m.Resolution = &res
	}
	if d.ResolutionNotes != "" {
		v := d.ResolutionNotes
		m.ResolutionNotes = &v
	}
	return m
}

func toDomainDisputeMessage(m disputeMessageModel) *domain.DisputeMessage {
	return &domain.DisputeMessage{
		ID:          m.ID,
		DisputeID:   m.DisputeID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		Attachments: unmarshalRefs(m.Attachments),
		IsInternal:  m.IsInternal,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *DisputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	m := toDisputeModel(d)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainDispute(m)
	return nil
}

func (r *DisputeRepository) GetByID(ctx context.Context, id int64) (*domain.Dispute, error) {
	var m disputeModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, tx.Error
	}
	return toDomainDispute(m), nil
}

// HasOpenDispute reports whether the booking already has a non-terminal
// dispute. At most one open or under-review dispute may exist per booking.
func (r *DisputeRepository) HasOpenDispute(ctx context.Context, bookingID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&disputeModel{}).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]string{string(domain.DisputeOpen), string(domain.DisputeUnderReview)}).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// FindOpenByBookingID returns the booking's non-terminal dispute, if any.
func (r *DisputeRepository) FindOpenByBookingID(ctx context.Context, bookingID int64) (*domain.Dispute, error) {
	var m disputeModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]string{string(domain.DisputeOpen), string(domain.DisputeUnderReview)}).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, tx.Error
	}
	return toDomainDispute(m), nil
}

// DisputeFilter narrows List results. A nil field means "no constraint".
type DisputeFilter struct {
	Status        *domain.DisputeStatus
	ParticipantID *int64
	BookingID     *int64
	Limit         int
	Offset        int
}

func (r *DisputeRepository) List(ctx context.Context, f DisputeFilter) ([]domain.Dispute, error) {
	q := r.db.WithContext(ctx).Model(&disputeModel{})

	if f.Status != nil {
		q = q.Where("disputes.status = ?", string(*f.Status))
	}
	if f.BookingID != nil {
		q = q.Where("disputes.booking_id = ?", *f.BookingID)
	}
	if f.ParticipantID != nil {
		q = q.Joins("JOIN bookings ON bookings.id = disputes.booking_id").
			Where("disputes.filed_by_id = ? OR bookings.owner_id = ? OR bookings.renter_id = ?",
				*f.ParticipantID, *f.ParticipantID, *f.ParticipantID)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var ms []disputeModel
	tx := q.Order("disputes.created_at DESC").Limit(limit).Offset(f.Offset).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Dispute, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainDispute(m))
	}
	return out, nil
}

// MarkUnderReview performs a version-guarded OPEN -> UNDER_REVIEW update.
func (r *DisputeRepository) MarkUnderReview(ctx context.Context, disputeID, version int64) error {
	tx := r.db.WithContext(ctx).
		Model(&disputeModel{}).
		Where("id = ? AND version = ? AND status = ?", disputeID, version, string(domain.DisputeOpen)).
		Updates(map[string]any{
			"status":     string(domain.DisputeUnderReview),
			"version":    version + 1,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// MarkClosed performs a version-guarded transition to CLOSED. Closed
// disputes carry no financial resolution; the note lands in
// resolution_notes only.
func (r *DisputeRepository) MarkClosed(ctx context.Context, disputeID, version int64, note string) error {
	updates := map[string]any{
		"status":     string(domain.DisputeClosed),
		"version":    version + 1,
		"updated_at": time.Now(),
	}
	if note != "" {
		updates["resolution_notes"] = note
	}

	tx := r.db.WithContext(ctx).
		Model(&disputeModel{}).
		Where("id = ? AND version = ? AND status IN ?", disputeID, version,
			[]string{string(domain.DisputeOpen), string(domain.DisputeUnderReview)}).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// ResolutionUpdate carries the fields committed by the resolve transition.
type ResolutionUpdate struct {
	Resolution     domain.DisputeResolution
	ResolvedAmount float64
	Notes          string
	ResolvedByID   int64
	ResolvedAt     time.Time
}

// MarkResolved performs a version-guarded transition to RESOLVED, setting
// all resolution fields in the same statement so they can never be
// observed partially written.
func (r *DisputeRepository) MarkResolved(ctx context.Context, disputeID, version int64, u ResolutionUpdate) error {
	updates := map[string]any{
		"status":          string(domain.DisputeResolved),
		"resolution":      string(u.Resolution),
		"resolved_amount": u.ResolvedAmount,
		"resolved_by_id":  u.ResolvedByID,
		"resolved_at":     u.ResolvedAt,
		"version":         version + 1,
		"updated_at":      time.Now(),
	}
	if u.Notes != "" {
		updates["resolution_notes"] = u.Notes
	}

	tx := r.db.WithContext(ctx).
		Model(&disputeModel{}).
		Where("id = ? AND version = ? AND status IN ?", disputeID, version,
			[]string{string(domain.DisputeOpen), string(domain.DisputeUnderReview)}).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *DisputeRepository) CreateMessage(ctx context.Context, m *domain.DisputeMessage) error {
	row := disputeMessageModel{
		DisputeID:   m.DisputeID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		Attachments: marshalRefs(m.Attachments),
		IsInternal:  m.IsInternal,
		CreatedAt:   m.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	tx := r.db.WithContext(ctx).Create(&row)
	if tx.Error != nil {
		return tx.Error
	}
	*m = *toDomainDisputeMessage(row)
	return nil
}

// ListMessages returns the thread in creation order; equal timestamps fall
// back to insertion order via the id tiebreak. Internal messages are
// excluded unless includeInternal is set.
func (r *DisputeRepository) ListMessages(ctx context.Context, disputeID int64, includeInternal bool) ([]domain.DisputeMessage, error) {
	q := r.db.WithContext(ctx).Where("dispute_id = ?", disputeID)
	if !includeInternal {
		q = q.Where("is_internal = ?", false)
	}

	var ms []disputeMessageModel
	tx := q.Order("created_at ASC, id ASC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.DisputeMessage, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainDisputeMessage(m))
	}
	return out, nil
}
