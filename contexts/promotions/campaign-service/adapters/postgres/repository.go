package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.CreatedBy) != "" {
		tx = tx.Where("created_by = ?", strings.TrimSpace(filter.CreatedBy))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign entities.Campaign) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaign.CampaignID)).
		Updates(campaignUpdatesFromEntity(campaign))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) DeleteCampaign(ctx context.Context, campaignID string) error {
	campaignID = strings.TrimSpace(campaignID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("campaign_id = ?", campaignID).Delete(&campaignModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCampaignNotFound
		}
		for _, model := range []any{
			&participantModel{},
			&waitlistQuestionModel{},
			&waitlistResponseModel{},
			&banModel{},
			&permissionsModel{},
			&prizeModel{},
			&inviteModel{},
		} {
			if err := tx.Where("campaign_id = ?", campaignID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) FundCampaign(ctx context.Context, campaignID string, fee int64, remaining int64, now time.Time) error {
	campaignID = strings.TrimSpace(campaignID)
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ? AND is_funded = ?", campaignID, false).
		Updates(map[string]any{
			"is_funded":        true,
			"platform_fee":     fee,
			"remaining_budget": remaining,
			"updated_at":       now.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&campaignModel{}).
			Where("campaign_id = ?", campaignID).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrCampaignNotFound
		}
		return domainerrors.ErrAlreadyFunded
	}
	return nil
}

func (r *Repository) CloseCampaign(ctx context.Context, campaignID string, now time.Time) (entities.Campaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	timestamp := now.UTC()

	var snapshot entities.Campaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row campaignModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ?", campaignID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCampaignNotFound
			}
			return err
		}
		if row.Status == string(entities.CampaignStatusEnded) {
			return domainerrors.ErrAlreadyEnded
		}

		if err := tx.Model(&campaignModel{}).
			Where("campaign_id = ?", campaignID).
			Updates(map[string]any{
				"status":      string(entities.CampaignStatusEnded),
				"archived_at": timestamp,
				"updated_at":  timestamp,
			}).
			Error; err != nil {
			return err
		}

		snapshot = row.toEntity()
		snapshot.Status = entities.CampaignStatusEnded
		snapshot.ArchivedAt = &timestamp
		snapshot.UpdatedAt = timestamp
		return nil
	})
	if err != nil {
		return entities.Campaign{}, err
	}
	return snapshot, nil
}

func (r *Repository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", string(entities.CampaignStatusActive), now.UTC()).
		Order("end_date ASC").
		Limit(limit).
		Pluck("campaign_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) AddParticipant(ctx context.Context, participant entities.Participant) error {
	row := participantModelFromEntity(participant)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyParticipant
		}
		return err
	}
	return nil
}

func (r *Repository) AdmitWithCapacity(ctx context.Context, participant entities.Participant, capacity int) error {
	row := participantModelFromEntity(participant)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCampaignRow(tx, row.CampaignID); err != nil {
			return err
		}
		admitted, err := admittedCountTx(tx, row.CampaignID)
		if err != nil {
			return err
		}
		if admitted >= int64(capacity) {
			return domainerrors.ErrCampaignFull
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyParticipant
			}
			return err
		}
		return nil
	})
}

func (r *Repository) PromoteWithCapacity(ctx context.Context, campaignID string, userID string, capacity int, now time.Time) error {
	campaignID = strings.TrimSpace(campaignID)
	userID = strings.TrimSpace(userID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCampaignRow(tx, campaignID); err != nil {
			return err
		}
		admitted, err := admittedCountTx(tx, campaignID)
		if err != nil {
			return err
		}
		if admitted >= int64(capacity) {
			return domainerrors.ErrCampaignFull
		}

		result := tx.Model(&participantModel{}).
			Where("campaign_id = ? AND user_id = ? AND role = ?", campaignID, userID, string(entities.RolePending)).
			Updates(map[string]any{
				"role":       string(entities.RoleMember),
				"updated_at": now.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrParticipantNotFound
		}
		return nil
	})
}

func (r *Repository) GetParticipant(ctx context.Context, campaignID string, userID string) (entities.Participant, error) {
	var row participantModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", strings.TrimSpace(campaignID), strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Participant{}, domainerrors.ErrParticipantNotFound
		}
		return entities.Participant{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListParticipants(ctx context.Context, campaignID string) ([]entities.Participant, error) {
	var rows []participantModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("joined_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Participant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateRole(ctx context.Context, campaignID string, userID string, role entities.ParticipantRole, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&participantModel{}).
		Where("campaign_id = ? AND user_id = ?", strings.TrimSpace(campaignID), strings.TrimSpace(userID)).
		Updates(map[string]any{
			"role":       string(role),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrParticipantNotFound
	}
	return nil
}

func (r *Repository) RemoveParticipant(ctx context.Context, campaignID string, userID string) error {
	result := r.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", strings.TrimSpace(campaignID), strings.TrimSpace(userID)).
		Delete(&participantModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrParticipantNotFound
	}
	return nil
}

func lockCampaignRow(tx *gorm.DB, campaignID string) error {
	var row campaignModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("campaign_id").
		Where("campaign_id = ?", campaignID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrCampaignNotFound
		}
		return err
	}
	return nil
}

func admittedCountTx(tx *gorm.DB, campaignID string) (int64, error) {
	var count int64
	err := tx.Model(&participantModel{}).
		Where("campaign_id = ? AND role IN ?", campaignID, []string{
			string(entities.RoleAdmin),
			string(entities.RoleMember),
		}).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) ReplaceQuestions(ctx context.Context, campaignID string, questions []entities.WaitlistQuestion) error {
	campaignID = strings.TrimSpace(campaignID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).
			Delete(&waitlistQuestionModel{}).
			Error; err != nil {
			return err
		}
		for _, question := range questions {
			row := waitlistQuestionModel{
				QuestionID: strings.TrimSpace(question.QuestionID),
				CampaignID: campaignID,
				Text:       strings.TrimSpace(question.Text),
				Order:      question.Order,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListQuestions(ctx context.Context, campaignID string) ([]entities.WaitlistQuestion, error) {
	var rows []waitlistQuestionModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.WaitlistQuestion, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateResponse(ctx context.Context, response entities.WaitlistResponse) error {
	row, err := responseModelFromEntity(response)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyParticipant
		}
		return err
	}
	return nil
}

func (r *Repository) GetResponse(ctx context.Context, campaignID string, userID string) (entities.WaitlistResponse, error) {
	var row waitlistResponseModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", strings.TrimSpace(campaignID), strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.WaitlistResponse{}, domainerrors.ErrResponseNotFound
		}
		return entities.WaitlistResponse{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListResponses(ctx context.Context, campaignID string, status entities.ResponseStatus) ([]entities.WaitlistResponse, error) {
	tx := r.db.WithContext(ctx).Where("campaign_id = ?", strings.TrimSpace(campaignID))
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}

	var rows []waitlistResponseModel
	if err := tx.Order("submitted_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.WaitlistResponse, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) UpdateResponse(ctx context.Context, response entities.WaitlistResponse) error {
	row, err := responseModelFromEntity(response)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&waitlistResponseModel{}).
		Where("campaign_id = ? AND user_id = ?", row.CampaignID, row.UserID).
		Updates(map[string]any{
			"answers":      row.Answers,
			"status":       row.Status,
			"reviewed_by":  row.ReviewedBy,
			"reviewed_at":  row.ReviewedAt,
			"review_note":  row.ReviewNote,
			"submitted_at": row.SubmittedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrResponseNotFound
	}
	return nil
}

func (r *Repository) RejectPendingResponse(ctx context.Context, campaignID string, userID string, reviewedBy string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&waitlistResponseModel{}).
		Where(
			"campaign_id = ? AND user_id = ? AND status = ?",
			strings.TrimSpace(campaignID),
			strings.TrimSpace(userID),
			string(entities.ResponseStatusPending),
		).
		Updates(map[string]any{
			"status":      string(entities.ResponseStatusRejected),
			"reviewed_by": strings.TrimSpace(reviewedBy),
			"reviewed_at": now.UTC(),
		}).
		Error
}

func (r *Repository) AddBan(ctx context.Context, ban entities.CampaignBan) error {
	row := banModel{
		CampaignID: strings.TrimSpace(ban.CampaignID),
		UserID:     strings.TrimSpace(ban.UserID),
		BannedBy:   strings.TrimSpace(ban.BannedBy),
		Reason:     strings.TrimSpace(ban.Reason),
		CreatedAt:  ban.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) IsBanned(ctx context.Context, campaignID string, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&banModel{}).
		Where("campaign_id = ? AND user_id = ?", strings.TrimSpace(campaignID), strings.TrimSpace(userID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) GetPermissions(ctx context.Context, campaignID string) (entities.CampaignPermissions, bool, error) {
	var row permissionsModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignPermissions{}, false, nil
		}
		return entities.CampaignPermissions{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) PutPermissions(ctx context.Context, perms entities.CampaignPermissions) error {
	row := permissionsModel{
		CampaignID:              strings.TrimSpace(perms.CampaignID),
		AdminsCanEditCampaign:   perms.AdminsCanEditCampaign,
		AdminsCanDeleteCampaign: perms.AdminsCanDeleteCampaign,
		AdminsCanManageTeam:     perms.AdminsCanManageTeam,
		AdminsCanAddBudget:      perms.AdminsCanAddBudget,
		AdminsCanReviewClips:    perms.AdminsCanReviewClips,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ReplacePrizes(ctx context.Context, campaignID string, prizes []entities.PrizeDistribution) error {
	campaignID = strings.TrimSpace(campaignID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).
			Delete(&prizeModel{}).
			Error; err != nil {
			return err
		}
		for _, prize := range prizes {
			row := prizeModel{
				CampaignID: campaignID,
				Position:   prize.Position,
				Reward:     prize.Reward,
				Label:      strings.TrimSpace(prize.Label),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListPrizes(ctx context.Context, campaignID string) ([]entities.PrizeDistribution, error) {
	var rows []prizeModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.PrizeDistribution, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.PrizeDistribution{
			CampaignID: row.CampaignID,
			Position:   row.Position,
			Reward:     row.Reward,
			Label:      row.Label,
		})
	}
	return items, nil
}

func (r *Repository) AddInvites(ctx context.Context, invites []entities.CampaignInvite) error {
	if len(invites) == 0 {
		return nil
	}
	rows := make([]inviteModel, 0, len(invites))
	for _, invite := range invites {
		rows = append(rows, inviteModel{
			CampaignID: strings.TrimSpace(invite.CampaignID),
			UserID:     strings.TrimSpace(invite.UserID),
			CreatedAt:  invite.CreatedAt.UTC(),
		})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&rows).
		Error
}

func (r *Repository) ListInvites(ctx context.Context, campaignID string) ([]entities.CampaignInvite, error) {
	var rows []inviteModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.CampaignInvite, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.CampaignInvite{
			CampaignID: row.CampaignID,
			UserID:     row.UserID,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) IncrementClipCounter(ctx context.Context, campaignID string, counter ports.ClipCounter, occurredAt time.Time) error {
	column := ""
	switch counter {
	case ports.ClipCounterPending:
		column = "pending_clips"
	case ports.ClipCounterApproved:
		column = "approved_clips"
	case ports.ClipCounterRejected:
		column = "rejected_clips"
	default:
		return domainerrors.ErrInvalidCampaignInput
	}

	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": occurredAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidCampaignInput
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return false, createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", row.EventID).
		First(&existing).
		Error; err != nil {
		return false, err
	}
	if existing.PayloadHash != row.PayloadHash {
		return false, domainerrors.ErrIdempotencyKeyConflict
	}
	return true, nil
}

type campaignModel struct {
	CampaignID        string     `gorm:"column:campaign_id;primaryKey"`
	CreatedBy         string     `gorm:"column:created_by"`
	StudioID          string     `gorm:"column:studio_id"`
	Title             string     `gorm:"column:title"`
	Description       string     `gorm:"column:description"`
	Status            string     `gorm:"column:status"`
	CampaignType      string     `gorm:"column:campaign_type"`
	Platforms         []string   `gorm:"column:platforms;type:text[]"`
	EditorSlots       int        `gorm:"column:editor_slots"`
	TotalBudget       int64      `gorm:"column:total_budget"`
	PlatformFee       int64      `gorm:"column:platform_fee"`
	RemainingBudget   int64      `gorm:"column:remaining_budget"`
	SpentBudget       int64      `gorm:"column:spent_budget"`
	IsFunded          bool       `gorm:"column:is_funded"`
	ApprovedClips     int        `gorm:"column:approved_clips"`
	PendingClips      int        `gorm:"column:pending_clips"`
	RejectedClips     int        `gorm:"column:rejected_clips"`
	TotalViews        int64      `gorm:"column:total_views"`
	EnableLeaderboard bool       `gorm:"column:enable_leaderboard"`
	IsPrivate         bool       `gorm:"column:is_private"`
	StartDate         *time.Time `gorm:"column:start_date"`
	EndDate           *time.Time `gorm:"column:end_date"`
	ArchivedAt        *time.Time `gorm:"column:archived_at"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:        strings.TrimSpace(item.CampaignID),
		CreatedBy:         strings.TrimSpace(item.CreatedBy),
		StudioID:          strings.TrimSpace(item.StudioID),
		Title:             strings.TrimSpace(item.Title),
		Description:       strings.TrimSpace(item.Description),
		Status:            string(item.Status),
		CampaignType:      string(item.CampaignType),
		Platforms:         copyOrEmpty(item.Platforms),
		EditorSlots:       item.EditorSlots,
		TotalBudget:       item.TotalBudget,
		PlatformFee:       item.PlatformFee,
		RemainingBudget:   item.RemainingBudget,
		SpentBudget:       item.SpentBudget,
		IsFunded:          item.IsFunded,
		ApprovedClips:     item.ApprovedClips,
		PendingClips:      item.PendingClips,
		RejectedClips:     item.RejectedClips,
		TotalViews:        item.TotalViews,
		EnableLeaderboard: item.EnableLeaderboard,
		IsPrivate:         item.IsPrivate,
		StartDate:         normalizeOptionalTime(item.StartDate),
		EndDate:           normalizeOptionalTime(item.EndDate),
		ArchivedAt:        normalizeOptionalTime(item.ArchivedAt),
		CreatedAt:         item.CreatedAt.UTC(),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}
}

func campaignUpdatesFromEntity(item entities.Campaign) map[string]any {
	row := campaignModelFromEntity(item)
	return map[string]any{
		"created_by":         row.CreatedBy,
		"studio_id":          row.StudioID,
		"title":              row.Title,
		"description":        row.Description,
		"status":             row.Status,
		"campaign_type":      row.CampaignType,
		"platforms":          row.Platforms,
		"editor_slots":       row.EditorSlots,
		"total_budget":       row.TotalBudget,
		"platform_fee":       row.PlatformFee,
		"remaining_budget":   row.RemainingBudget,
		"spent_budget":       row.SpentBudget,
		"is_funded":          row.IsFunded,
		"approved_clips":     row.ApprovedClips,
		"pending_clips":      row.PendingClips,
		"rejected_clips":     row.RejectedClips,
		"total_views":        row.TotalViews,
		"enable_leaderboard": row.EnableLeaderboard,
		"is_private":         row.IsPrivate,
		"start_date":         row.StartDate,
		"end_date":           row.EndDate,
		"archived_at":        row.ArchivedAt,
		"updated_at":         row.UpdatedAt,
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:        m.CampaignID,
		CreatedBy:         m.CreatedBy,
		StudioID:          m.StudioID,
		Title:             m.Title,
		Description:       m.Description,
		Status:            entities.CampaignStatus(m.Status),
		CampaignType:      entities.CampaignType(m.CampaignType),
		Platforms:         copyOrEmpty(m.Platforms),
		EditorSlots:       m.EditorSlots,
		TotalBudget:       m.TotalBudget,
		PlatformFee:       m.PlatformFee,
		RemainingBudget:   m.RemainingBudget,
		SpentBudget:       m.SpentBudget,
		IsFunded:          m.IsFunded,
		ApprovedClips:     m.ApprovedClips,
		PendingClips:      m.PendingClips,
		RejectedClips:     m.RejectedClips,
		TotalViews:        m.TotalViews,
		EnableLeaderboard: m.EnableLeaderboard,
		IsPrivate:         m.IsPrivate,
		StartDate:         normalizeOptionalTime(m.StartDate),
		EndDate:           normalizeOptionalTime(m.EndDate),
		ArchivedAt:        normalizeOptionalTime(m.ArchivedAt),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type participantModel struct {
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	UserID     string    `gorm:"column:user_id;primaryKey"`
	Role       string    `gorm:"column:role"`
	JoinedAt   time.Time `gorm:"column:joined_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (participantModel) TableName() string {
	return "campaign_participants"
}

func participantModelFromEntity(item entities.Participant) participantModel {
	return participantModel{
		CampaignID: strings.TrimSpace(item.CampaignID),
		UserID:     strings.TrimSpace(item.UserID),
		Role:       string(item.Role),
		JoinedAt:   item.JoinedAt.UTC(),
		UpdatedAt:  item.UpdatedAt.UTC(),
	}
}

func (m participantModel) toEntity() entities.Participant {
	return entities.Participant{
		CampaignID: m.CampaignID,
		UserID:     m.UserID,
		Role:       entities.ParticipantRole(m.Role),
		JoinedAt:   m.JoinedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type waitlistQuestionModel struct {
	QuestionID string `gorm:"column:question_id;primaryKey"`
	CampaignID string `gorm:"column:campaign_id"`
	Text       string `gorm:"column:text"`
	Order      int    `gorm:"column:position"`
}

func (waitlistQuestionModel) TableName() string {
	return "campaign_waitlist_questions"
}

func (m waitlistQuestionModel) toEntity() entities.WaitlistQuestion {
	return entities.WaitlistQuestion{
		QuestionID: m.QuestionID,
		CampaignID: m.CampaignID,
		Text:       m.Text,
		Order:      m.Order,
	}
}

type waitlistResponseModel struct {
	CampaignID  string     `gorm:"column:campaign_id;primaryKey"`
	UserID      string     `gorm:"column:user_id;primaryKey"`
	Answers     []byte     `gorm:"column:answers;type:jsonb"`
	Status      string     `gorm:"column:status"`
	ReviewedBy  string     `gorm:"column:reviewed_by"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	ReviewNote  string     `gorm:"column:review_note"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
}

func (waitlistResponseModel) TableName() string {
	return "campaign_waitlist_responses"
}

func responseModelFromEntity(item entities.WaitlistResponse) (waitlistResponseModel, error) {
	answers, err := json.Marshal(item.Answers)
	if err != nil {
		return waitlistResponseModel{}, err
	}
	return waitlistResponseModel{
		CampaignID:  strings.TrimSpace(item.CampaignID),
		UserID:      strings.TrimSpace(item.UserID),
		Answers:     answers,
		Status:      string(item.Status),
		ReviewedBy:  strings.TrimSpace(item.ReviewedBy),
		ReviewedAt:  normalizeOptionalTime(item.ReviewedAt),
		ReviewNote:  strings.TrimSpace(item.Note),
		SubmittedAt: item.SubmittedAt.UTC(),
	}, nil
}

func (m waitlistResponseModel) toEntity() (entities.WaitlistResponse, error) {
	answers := map[string]string{}
	if len(m.Answers) > 0 {
		if err := json.Unmarshal(m.Answers, &answers); err != nil {
			return entities.WaitlistResponse{}, err
		}
	}
	return entities.WaitlistResponse{
		CampaignID:  m.CampaignID,
		UserID:      m.UserID,
		Answers:     answers,
		Status:      entities.ResponseStatus(m.Status),
		ReviewedBy:  m.ReviewedBy,
		ReviewedAt:  normalizeOptionalTime(m.ReviewedAt),
		Note:        m.ReviewNote,
		SubmittedAt: m.SubmittedAt.UTC(),
	}, nil
}

type banModel struct {
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	UserID     string    `gorm:"column:user_id;primaryKey"`
	BannedBy   string    `gorm:"column:banned_by"`
	Reason     string    `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (banModel) TableName() string {
	return "campaign_bans"
}

type permissionsModel struct {
	CampaignID              string `gorm:"column:campaign_id;primaryKey"`
	AdminsCanEditCampaign   bool   `gorm:"column:admins_can_edit_campaign"`
	AdminsCanDeleteCampaign bool   `gorm:"column:admins_can_delete_campaign"`
	AdminsCanManageTeam     bool   `gorm:"column:admins_can_manage_team"`
	AdminsCanAddBudget      bool   `gorm:"column:admins_can_add_budget"`
	AdminsCanReviewClips    bool   `gorm:"column:admins_can_review_clips"`
}

func (permissionsModel) TableName() string {
	return "campaign_permissions"
}

func (m permissionsModel) toEntity() entities.CampaignPermissions {
	return entities.CampaignPermissions{
		CampaignID:              m.CampaignID,
		AdminsCanEditCampaign:   m.AdminsCanEditCampaign,
		AdminsCanDeleteCampaign: m.AdminsCanDeleteCampaign,
		AdminsCanManageTeam:     m.AdminsCanManageTeam,
		AdminsCanAddBudget:      m.AdminsCanAddBudget,
		AdminsCanReviewClips:    m.AdminsCanReviewClips,
	}
}

type prizeModel struct {
	CampaignID string `gorm:"column:campaign_id;primaryKey"`
	Position   int    `gorm:"column:position;primaryKey"`
	Reward     int64  `gorm:"column:reward"`
	Label      string `gorm:"column:label"`
}

func (prizeModel) TableName() string {
	return "campaign_prizes"
}

type inviteModel struct {
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	UserID     string    `gorm:"column:user_id;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (inviteModel) TableName() string {
	return "campaign_invites"
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "campaign_idempotency"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "campaign_outbox"
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "campaign_event_dedup"
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
