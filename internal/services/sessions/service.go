package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/internal/logging"
	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/internal/services/jobs"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

const (
	DefaultTTL           = 30 * time.Minute
	DefaultMaxSessions   = 1000
	DefaultSweepInterval = time.Minute
	DefaultMaxSurface    = 8192
)

// Session is one open editor plus the bookkeeping the store needs
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	mu         sync.Mutex
	lastAccess time.Time
	editor     *editor.Editor
}

// State snapshots the session's editor under its lock
func (s *Session) State() editor.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.State()
}

// LastAccess returns when the session was last touched
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

type service struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	handoff Handoff
	opts    Options
	logger  *slog.Logger
	now     func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewService creates a session store and starts its expiry sweeper
func NewService(handoff Handoff, opts Options, logger *slog.Logger) Service {
	return newService(handoff, opts, logger, time.Now)
}

func newService(handoff Handoff, opts Options, logger *slog.Logger, now func() time.Time) *service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.MaxSurface <= 0 {
		opts.MaxSurface = DefaultMaxSurface
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &service{
		sessions: make(map[string]*Session),
		handoff:  handoff,
		opts:     opts,
		logger:   logging.WithComponent(logger, "sessions"),
		now:      now,
		stopCh:   make(chan struct{}),
	}

	s.wg.Add(1)
	go s.sweepExpired()

	return s
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Session, error) {
	if params.VideoURL == "" {
		return nil, apperrors.MissingFieldError("videoUrl")
	}
	if params.Duration < 0 {
		return nil, apperrors.ValidationError("duration", "must be non-negative")
	}
	if err := s.checkSize("width", "height", params.Container); err != nil {
		return nil, err
	}
	if err := s.checkSize("nativeWidth", "nativeHeight", params.Native); err != nil {
		return nil, err
	}
	container := params.Container
	if container.IsZero() {
		container = s.opts.DefaultSurface
	}

	s.removeExpired()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.opts.MaxSessions {
		return nil, apperrors.SessionLimitError(s.opts.MaxSessions)
	}

	id := uuid.NewString()
	log := logging.WithSessionID(s.logger, id)
	now := s.now()
	sess := &Session{
		ID:         id,
		OwnerID:    params.OwnerID,
		CreatedAt:  now,
		lastAccess: now,
	}
	sess.editor = editor.New(editor.Options{
		VideoURL:  params.VideoURL,
		Duration:  params.Duration,
		Container: container,
		Native:    params.Native,
		OnProcess: func(masks []models.Mask) {
			log.Info("mask set submitted", "masks", len(masks))
		},
		OnClose: func() {
			log.Info("session closed")
		},
	})
	s.sessions[id] = sess

	log.Info("session opened", "video_url", params.VideoURL, "surface", sess.editor.Surface())
	return sess, nil
}

func (s *service) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.expired(sess) {
		return nil, apperrors.NotFound("session", id)
	}

	sess.mu.Lock()
	sess.lastAccess = s.now()
	sess.mu.Unlock()
	return sess, nil
}

func (s *service) Resize(ctx context.Context, id string, container, native geometry.Size) error {
	if err := s.checkSize("width", "height", container); err != nil {
		return err
	}
	if err := s.checkSize("nativeWidth", "nativeHeight", native); err != nil {
		return err
	}
	return s.Do(ctx, id, func(ed *editor.Editor) error {
		ed.SyncSurface(container, native)
		return nil
	})
}

// checkSize bounds both sides by MaxSurface so rendering stays allocatable
func (s *service) checkSize(wField, hField string, size geometry.Size) error {
	reason := fmt.Sprintf("must not exceed %v pixels", s.opts.MaxSurface)
	if size.Width > s.opts.MaxSurface {
		return apperrors.ValidationError(wField, reason)
	}
	if size.Height > s.opts.MaxSurface {
		return apperrors.ValidationError(hField, reason)
	}
	return nil
}

func (s *service) Do(ctx context.Context, id string, fn func(ed *editor.Editor) error) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.editor)
}

func (s *service) Process(ctx context.Context, id string, inpaintMethod string) (*models.Job, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	ed := sess.editor
	req := jobs.MaskJobRequest{
		SessionID:     sess.ID,
		VideoURL:      ed.VideoURL(),
		Surface:       ed.Surface(),
		Native:        ed.Native(),
		Duration:      ed.Duration(),
		Masks:         ed.Process(),
		InpaintMethod: inpaintMethod,
	}
	sess.mu.Unlock()

	opts := []jobs.JobOption{jobs.WithCreatedBy(sess.OwnerID)}
	if s.opts.JobMaxRetries > 0 {
		opts = append(opts, jobs.WithMaxRetries(s.opts.JobMaxRetries))
	}
	return s.handoff.EnqueueMaskJob(ctx, req, opts...)
}

func (s *service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return apperrors.NotFound("session", id)
	}
	s.discard(sess)
	return nil
}

func (s *service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop ends the sweeper and discards every open session
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()

		s.mu.Lock()
		open := s.sessions
		s.sessions = make(map[string]*Session)
		s.mu.Unlock()

		for _, sess := range open {
			s.discard(sess)
		}
	})
}

func (s *service) discard(sess *Session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.editor.Close()
}

func (s *service) expired(sess *Session) bool {
	return s.now().Sub(sess.LastAccess()) > s.opts.TTL
}

// sweepExpired closes idle sessions periodically
func (s *service) sweepExpired() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCh:
			return
		}
	}
}

// removeExpired drops every session idle for longer than the TTL
func (s *service) removeExpired() int {
	var idle []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			idle = append(idle, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		logging.WithSessionID(s.logger, sess.ID).Info("session expired", "ttl", s.opts.TTL)
		s.discard(sess)
	}
	return len(idle)
}
