// Package server is the HTTP reply service the automation talks to.
package server

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/backend"
	"github.com/osman-haider/SmartXBot/replygen"
)

// Repository is the persistence the service needs.
type Repository interface {
	IsProcessed(tweetID string) (bool, error)
	MarkProcessed(tweetID, reply string) error
	LoadPrompts() (backend.Prompts, error)
	SavePrompts(p backend.Prompts) error
	LoadKeywordsConfig() (backend.KeywordsConfig, bool, error)
	SaveKeywordsConfig(cfg backend.KeywordsConfig) error
}

// Generator writes a reply for a post.
type Generator interface {
	Generate(ctx context.Context, tweet string, prompts backend.Prompts) (string, error)
}

type Server struct {
	repo         Repository
	generator    Generator
	keywordsFile string

	// processMu makes check-generate-record atomic so one id never gets two
	// replies.
	processMu sync.Mutex
}

func New(repo Repository, generator Generator, keywordsFile string) *Server {
	return &Server{repo: repo, generator: generator, keywordsFile: keywordsFile}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), allowAnyOrigin())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/keywords", s.getKeywords)
	r.POST("/tweet-process", s.processTweet)
	r.GET("/prompts", s.getPrompts)
	r.POST("/prompts", s.savePrompts)
	r.GET("/keywords-config", s.getKeywordsConfig)
	r.POST("/keywords-config", s.saveKeywordsConfig)

	return r
}

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, backend.ErrorResponse{Detail: detail})
}

func (s *Server) getKeywords(c *gin.Context) {
	keywords, err := s.keywords()
	if err != nil {
		logrus.Errorf("failed to load keywords: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, backend.KeywordsResponse{Keywords: keywords})
}

// keywords prefers the stored configuration and falls back to the keyword
// file.
func (s *Server) keywords() ([]string, error) {
	cfg, ok, err := s.repo.LoadKeywordsConfig()
	if err != nil {
		return nil, err
	}
	if ok && len(cfg.Keywords) > 0 {
		return cfg.Keywords, nil
	}
	return LoadKeywordsFile(s.keywordsFile)
}

// LoadKeywordsFile reads one keyword per line, dropping blank lines. A
// missing file yields an empty list.
func LoadKeywordsFile(path string) ([]string, error) {
	if path == "" {
		return []string{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read keywords file %s", path)
	}
	return cleanKeywords(strings.Split(string(data), "\n")), nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func (s *Server) processTweet(c *gin.Context) {
	var req backend.TweetProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.TweetID = strings.TrimSpace(req.TweetID)
	if req.TweetID == "" {
		respondError(c, http.StatusBadRequest, "tweet_id is required")
		return
	}

	log := logrus.WithField("tweet_id", req.TweetID)

	s.processMu.Lock()
	defer s.processMu.Unlock()

	done, err := s.repo.IsProcessed(req.TweetID)
	if err != nil {
		log.Errorf("failed to check tweet: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if done {
		log.Info("already processed")
		c.JSON(http.StatusOK, backend.TweetProcessResponse{Message: backend.OldMarker})
		return
	}

	prompts, err := s.repo.LoadPrompts()
	if err != nil {
		log.Warnf("failed to load prompts, using defaults: %v", err)
		prompts = backend.Prompts{}
	}

	reply, err := s.generator.Generate(c.Request.Context(), req.Tweet, prompts)
	if err != nil {
		log.Errorf("reply generation failed: %v", err)
		respondError(c, http.StatusBadGateway, "reply generation failed: "+err.Error())
		return
	}
	reply = replygen.Truncate(reply)

	if err := s.repo.MarkProcessed(req.TweetID, reply); err != nil {
		log.Errorf("failed to record tweet: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Infof("reply generated (%d chars)", len(reply))
	c.JSON(http.StatusOK, backend.TweetProcessResponse{Message: reply})
}

func (s *Server) getPrompts(c *gin.Context) {
	p, err := s.repo.LoadPrompts()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) savePrompts(c *gin.Context) {
	var p backend.Prompts
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(p.HiringPrompt) == "" || strings.TrimSpace(p.NormalPrompt) == "" {
		respondError(c, http.StatusBadRequest, "hiring_prompt and normal_prompt are required")
		return
	}

	if err := s.repo.SavePrompts(p); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	logrus.Info("prompts updated")
	c.JSON(http.StatusOK, p)
}

func (s *Server) getKeywordsConfig(c *gin.Context) {
	cfg, ok, err := s.repo.LoadKeywordsConfig()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		kws, err := LoadKeywordsFile(s.keywordsFile)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		cfg = backend.KeywordsConfig{Keywords: kws}
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) saveKeywordsConfig(c *gin.Context) {
	var cfg backend.KeywordsConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg.Keywords = cleanKeywords(cfg.Keywords)
	if len(cfg.Keywords) == 0 {
		respondError(c, http.StatusBadRequest, "at least one keyword is required")
		return
	}
	for name, d := range map[string]string{"since_date": cfg.SinceDate, "until_date": cfg.UntilDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			respondError(c, http.StatusBadRequest, name+" must be YYYY-MM-DD")
			return
		}
	}

	if err := s.repo.SaveKeywordsConfig(cfg); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	logrus.Infof("keywords config updated: %d keywords", len(cfg.Keywords))
	c.JSON(http.StatusOK, cfg)
}
