package campaignservice

import (
	"log/slog"
	"time"

	httpadapter "rally/contexts/promotions/campaign-service/adapters/http"
	"rally/contexts/promotions/campaign-service/adapters/memory"
	"rally/contexts/promotions/campaign-service/application/commands"
	"rally/contexts/promotions/campaign-service/application/queries"
	"rally/contexts/promotions/campaign-service/application/workers"
	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	AutoCloser workers.AutoCloser
	Store      *memory.Store
}

type Dependencies struct {
	Campaigns      ports.CampaignRepository
	Participants   ports.ParticipantRepository
	Waitlist       ports.WaitlistRepository
	Bans           ports.BanRepository
	Permissions    ports.PermissionsRepository
	Prizes         ports.PrizeRepository
	Invites        ports.InviteRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	AutoCloseBatch int
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Campaigns:      deps.Campaigns,
		Participants:   deps.Participants,
		Prizes:         deps.Prizes,
		Invites:        deps.Invites,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	updateCampaign := commands.UpdateCampaignUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Prizes:       deps.Prizes,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	fundCampaign := commands.FundCampaignUseCase{
		Campaigns:   deps.Campaigns,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	closeCampaign := commands.CloseCampaignUseCase{
		Campaigns:   deps.Campaigns,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	deleteCampaign := commands.DeleteCampaignUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Logger:       deps.Logger,
	}
	joinCampaign := commands.JoinCampaignUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Waitlist:     deps.Waitlist,
		Bans:         deps.Bans,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	approveParticipant := commands.ApproveParticipantUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Waitlist:     deps.Waitlist,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	removeParticipant := commands.RemoveParticipantUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	banParticipant := commands.BanParticipantUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Waitlist:     deps.Waitlist,
		Bans:         deps.Bans,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	manageTeam := commands.ManageTeamUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Remove:       removeParticipant,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	setQuestions := commands.SetQuestionsUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Waitlist:     deps.Waitlist,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	reviewResponse := commands.ReviewResponseUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Waitlist:     deps.Waitlist,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	setPermissions := commands.SetPermissionsUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Logger:       deps.Logger,
	}
	autoClose := commands.AutoCloseUseCase{
		Campaigns:   deps.Campaigns,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		BatchSize:   deps.AutoCloseBatch,
		Logger:      deps.Logger,
	}

	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	listCampaigns := queries.ListCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	listTeam := queries.ListTeamUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Logger:       deps.Logger,
	}
	getQuestions := queries.GetQuestionsUseCase{
		Campaigns: deps.Campaigns,
		Waitlist:  deps.Waitlist,
		Logger:    deps.Logger,
	}
	listResponses := queries.ListResponsesUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Permissions:  deps.Permissions,
		Waitlist:     deps.Waitlist,
		Logger:       deps.Logger,
	}
	getStats := queries.GetStatsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	getLeaderboard := queries.GetLeaderboardUseCase{
		Campaigns: deps.Campaigns,
		Prizes:    deps.Prizes,
		Logger:    deps.Logger,
	}
	getPermissions := queries.GetPermissionsUseCase{
		Campaigns:   deps.Campaigns,
		Permissions: deps.Permissions,
		Logger:      deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign:     createCampaign,
			UpdateCampaign:     updateCampaign,
			FundCampaign:       fundCampaign,
			CloseCampaign:      closeCampaign,
			DeleteCampaign:     deleteCampaign,
			JoinCampaign:       joinCampaign,
			ApproveParticipant: approveParticipant,
			RemoveParticipant:  removeParticipant,
			BanParticipant:     banParticipant,
			ManageTeam:         manageTeam,
			SetQuestions:       setQuestions,
			ReviewResponse:     reviewResponse,
			SetPermissions:     setPermissions,
			GetCampaign:        getCampaign,
			ListCampaigns:      listCampaigns,
			ListTeam:           listTeam,
			GetQuestions:       getQuestions,
			ListResponses:      listResponses,
			GetStats:           getStats,
			GetLeaderboard:     getLeaderboard,
			GetPermissions:     getPermissions,
			Logger:             deps.Logger,
		},
		AutoCloser: workers.AutoCloser{
			Close:  autoClose,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Campaign, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns:      store,
		Participants:   store,
		Waitlist:       store,
		Bans:           store,
		Permissions:    store,
		Prizes:         store,
		Invites:        store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
