package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/config"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/handler"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/llm"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/repository"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/service"
	"github.com/shriyashpachpande/medical-imaging-agent/pkg/markdown"
	"github.com/shriyashpachpande/medical-imaging-agent/web"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	store := repository.NewLocalStore(cfg.App.UploadDir, log)
	vision := llm.NewClient(cfg.Groq.BaseURL, log)

	var opts []service.Option
	if cfg.S3.Enabled {
		s3Repo, err := repository.NewS3Repository(ctx, &cfg.S3, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 repository: %w", err)
		}
		opts = append(opts, service.WithArchiver(s3Repo))
	}

	analysisService := service.NewAnalysisService(cfg, store, vision, markdown.NewRenderer(), log, opts...)

	h := handler.NewHandler(analysisService, log)

	router, err := NewRouter(h, cfg.App.MaxUploadSize, log)
	if err != nil {
		return nil, err
	}

	// No WriteTimeout: a response waits on the remote analysis call.
	server := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("model", cfg.Groq.Model),
		zap.Bool("s3_archive", cfg.S3.Enabled))

	return server, nil
}

// NewRouter wires the routes onto a gin engine with the embedded templates.
func NewRouter(h *handler.Handler, maxMultipartMemory int64, log *zap.Logger) (*gin.Engine, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))
	router.SetHTMLTemplate(tmpl)
	if maxMultipartMemory > 0 {
		router.MaxMultipartMemory = maxMultipartMemory
	}

	router.GET("/", h.GetUI)
	router.POST("/", h.Analyze)
	router.GET("/health", h.HealthCheck)

	return router, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("host", s.cfg.Server.Host),
		zap.String("port", s.cfg.Server.Port),
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
