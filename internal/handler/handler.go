package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/config"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/optimizer"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/repository"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel notificationPublisher
	redisClient   *redis.Client
	optimizer     *optimizer.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh notificationPublisher, rdb *redis.Client, opt *optimizer.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,
		optimizer:     opt,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Get("/my-info", h.GetMyInfo)

		r.Route("/nurses", func(r chi.Router) {
			r.Get("/", h.GetWardNurses) // 同病区的护士需要互相可见才能发起换班
			r.With(h.requireAdmin).Post("/", h.CreateNurse)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.nurseInfo)
				r.Get("/", h.GetNurseInfo)
				r.With(h.requireAdmin).Patch("/", h.UpdateNurse)
				r.With(h.requireAdmin).Patch("/ward", h.TransferNurseWard)
			})
		})

		r.Route("/hard-requests", func(r chi.Router) {
			r.Post("/", h.SubmitHardRequest)
			r.Get("/mine", h.GetMyHardRequests)
			r.With(h.requireAdmin).Get("/pending", h.GetPendingHardRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Use(h.hardRequest)
				r.Post("/approve", h.ApproveHardRequest)
				r.Post("/reject", h.RejectHardRequest)
			})
		})

		r.Route("/soft-requests/{year}/{month}", func(r chi.Router) {
			r.Use(h.period)
			r.Get("/", h.GetMySoftRequests)
			r.Put("/", h.ReplaceSoftRequests)
			r.Delete("/{index}", h.RemoveSoftRequestEntry)
		})

		r.Route("/swap-requests", func(r chi.Router) {
			r.Post("/", h.ProposeSwapRequest)
			r.Get("/mine", h.GetMySwapRequests)
			r.Get("/incoming", h.GetIncomingSwapRequests)
			r.With(h.requireAdmin).Get("/pending-approval", h.GetSwapRequestsAwaitingApproval)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.swapRequest)
				r.Post("/accept", h.AcceptSwapRequest)
				r.Post("/reject", h.RejectSwapRequest)
				r.With(h.requireAdmin).Post("/approve", h.ApproveSwapRequest)
			})
		})

		r.Route("/schedules/{year}/{month}", func(r chi.Router) {
			r.Use(h.period)
			r.Get("/", h.GetSchedule)
			r.With(h.requireAdmin).Post("/generate", h.GenerateSchedule)
			r.With(h.requireAdmin).Post("/confirm", h.ConfirmSchedule)
		})
	})
}
