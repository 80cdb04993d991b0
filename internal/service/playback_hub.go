package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/adaptive"
	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/logger"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/monitoring"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	// Playback clients tick a few times per second at most.
	tickRateLimit = 10
	tickRateBurst = 20
)

// ChunkLister supplies a lecture's transcript chunks for boundary detection.
type ChunkLister interface {
	ListChunks(lectureID uint) ([]model.TranscriptChunk, error)
}

// clientMessage is everything the playback client sends over the session.
type clientMessage struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"current_time,omitempty"`
	Option      string  `json:"option,omitempty"`
}

type questionMessage struct {
	Type                string         `json:"type"`
	Question            model.Question `json:"question"`
	DisplayedDifficulty string         `json:"displayed_difficulty"`
	WindowSeconds       float64        `json:"window_seconds"`
}

type feedbackMessage struct {
	Type    string `json:"type"`
	Correct bool   `json:"correct"`
}

type resumeMessage struct {
	Type        string  `json:"type"`
	QuestionID  uint    `json:"question_id"`
	FinalResult bool    `json:"final_result"`
	Attempts    int     `json:"attempts"`
	TimeTaken   float64 `json:"time_taken"`
}

// PlaybackHub owns all live playback websocket sessions. Each session
// follows one student watching one lecture: it watches the playback clock
// for chapter boundaries, pops an adaptively-chosen question at each one,
// runs the countdown, and accumulates the outcomes. The batch is submitted
// to the attempt log when the session ends.
type PlaybackHub struct {
	Assessment *AssessmentService
	Chunks     ChunkLister

	epsilon  float64
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*playbackSession]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func NewPlaybackHub(assessment *AssessmentService, chunks ChunkLister, cfg *config.Config) *PlaybackHub {
	return &PlaybackHub{
		Assessment: assessment,
		Chunks:     chunks,
		epsilon:    cfg.Assessment.BoundaryEpsilon,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS layer; tokens are already
			// validated before the upgrade.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[*playbackSession]struct{}),
	}
}

type playbackSession struct {
	hub       *PlaybackHub
	conn      *websocket.Conn
	studentID string
	lectureID uint
	detector  *adaptive.BoundaryDetector
	limiter   *rate.Limiter

	send chan any

	mu      sync.Mutex
	tracker *adaptive.Tracker
	pending []model.PerformanceEntry
	closed  bool

	// One-record policy memory. Seeded from the log on the first boundary,
	// then maintained in-session: pending outcomes have not reached the log
	// yet, so re-reading the store mid-session would see stale history.
	last       *model.AttemptRecord
	lastSeeded bool
}

// Serve upgrades the request and runs the session until the client
// disconnects or the hub shuts down.
func (h *PlaybackHub) Serve(w http.ResponseWriter, r *http.Request, studentID string, lectureID uint) error {
	chunks, err := h.Chunks.ListChunks(lectureID)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	s := &playbackSession{
		hub:       h,
		conn:      conn,
		studentID: studentID,
		lectureID: lectureID,
		detector:  adaptive.NewBoundaryDetector(chunks, h.epsilon),
		limiter:   rate.NewLimiter(tickRateLimit, tickRateBurst),
		send:      make(chan any, 16),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return nil
	}
	h.sessions[s] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	monitoring.ActiveSessions.Inc()
	logger.Log.Info("playback session opened",
		zap.String("student_id", studentID),
		zap.Uint("lecture_id", lectureID))

	go s.writePump()
	go s.readPump()
	return nil
}

// Stop closes every live session and blocks until their pending batches
// have been flushed. Called during graceful shutdown.
func (h *PlaybackHub) Stop() {
	h.mu.Lock()
	h.closed = true
	for s := range h.sessions {
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		s.conn.Close()
	}
	h.mu.Unlock()
	h.wg.Wait()
}

func (h *PlaybackHub) drop(s *playbackSession) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		h.mu.Unlock()
		h.wg.Done()
		return
	}
	h.mu.Unlock()
}

func (s *playbackSession) readPump() {
	defer s.teardown()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn("playback session read failed",
					zap.String("student_id", s.studentID), zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		monitoring.WSMessageCounter.WithLabelValues(msg.Type, "in").Inc()

		switch msg.Type {
		case "TICK":
			if !s.limiter.Allow() {
				continue
			}
			s.handleTick(msg.CurrentTime)
		case "SELECT":
			s.handleSelect(msg.Option)
		}
	}
}

func (s *playbackSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleTick checks the playback position against the chapter boundaries.
// Ticks arriving while a question is on screen are ignored: the client
// pauses playback, so its clock should not be moving anyway.
func (s *playbackSession) handleTick(currentTime float64) {
	s.mu.Lock()
	busy := s.tracker != nil
	s.mu.Unlock()
	if busy {
		return
	}

	chunk := s.detector.Crossing(currentTime)
	if chunk == nil {
		return
	}

	last, err := s.lastOutcome()
	if err != nil {
		logger.Log.Error("last outcome lookup failed",
			zap.String("student_id", s.studentID), zap.Error(err))
		return
	}

	difficulty, question, err := s.hub.Assessment.NextQuestionFrom(last, chunk.ID)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			// Chunk has no questions; playback just continues.
			return
		}
		logger.Log.Error("next question selection failed",
			zap.String("student_id", s.studentID),
			zap.Uint("chunk_id", chunk.ID), zap.Error(err))
		return
	}

	tracker := adaptive.StartTracker(*question, difficulty, s.hub.Assessment.Window)

	s.mu.Lock()
	s.tracker = tracker
	s.mu.Unlock()

	go s.awaitOutcome(tracker)

	s.push(questionMessage{
		Type:                "QUESTION",
		Question:            *question,
		DisplayedDifficulty: difficulty.Code(),
		WindowSeconds:       s.hub.Assessment.Window.Seconds(),
	})
}

// lastOutcome returns the session's one-record policy memory, seeding it
// from the attempt log on first use.
func (s *playbackSession) lastOutcome() (*model.AttemptRecord, error) {
	s.mu.Lock()
	if s.lastSeeded {
		last := s.last
		s.mu.Unlock()
		return last, nil
	}
	s.mu.Unlock()

	last, err := s.hub.Assessment.LastAttempt(context.Background(), s.studentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.lastSeeded {
		s.last = last
		s.lastSeeded = true
	}
	last = s.last
	s.mu.Unlock()
	return last, nil
}

func (s *playbackSession) handleSelect(option string) {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()
	if tracker == nil {
		return
	}

	correct := tracker.Select(option)
	s.push(feedbackMessage{Type: "FEEDBACK", Correct: correct})
}

// awaitOutcome waits for the tracker's window to close, records the outcome
// in the session's pending batch and tells the client to resume playback.
func (s *playbackSession) awaitOutcome(tracker *adaptive.Tracker) {
	out, ok := <-tracker.Done()

	s.mu.Lock()
	if s.tracker == tracker {
		s.tracker = nil
	}
	if s.closed {
		// Session already flushed its batch; an outcome racing the
		// disconnect has nowhere to go.
		ok = false
	}
	if ok {
		s.pending = append(s.pending, model.PerformanceEntry{
			QuestionID:          out.QuestionID,
			DisplayedDifficulty: out.DisplayedDifficulty.Code(),
			Attempts:            out.Attempts,
			TimeTaken:           out.TimeTaken,
			FinalResult:         out.FinalResult,
		})
		s.last = &model.AttemptRecord{
			StudentID:           s.studentID,
			LectureID:           s.lectureID,
			QuestionID:          out.QuestionID,
			DisplayedDifficulty: out.DisplayedDifficulty,
			Attempts:            out.Attempts,
			TimeTaken:           out.TimeTaken,
			FinalResult:         out.FinalResult,
			Timestamp:           time.Now(),
		}
		s.lastSeeded = true
	}
	s.mu.Unlock()

	if !ok {
		// Torn down externally: session is closing, nothing to resume.
		return
	}

	s.push(resumeMessage{
		Type:        "RESUME",
		QuestionID:  out.QuestionID,
		FinalResult: out.FinalResult,
		Attempts:    out.Attempts,
		TimeTaken:   out.TimeTaken,
	})
}

func (s *playbackSession) push(msg any) {
	msgType := "UNKNOWN"
	switch m := msg.(type) {
	case questionMessage:
		msgType = m.Type
	case feedbackMessage:
		msgType = m.Type
	case resumeMessage:
		msgType = m.Type
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- msg:
		monitoring.WSMessageCounter.WithLabelValues(msgType, "out").Inc()
	default:
		logger.Log.Warn("playback session send buffer full",
			zap.String("student_id", s.studentID))
	}
}

// teardown stops any live countdown and flushes the accumulated batch to
// the attempt log. Runs exactly once, when the read pump exits.
func (s *playbackSession) teardown() {
	s.mu.Lock()
	s.closed = true
	if s.tracker != nil {
		s.tracker.Stop()
		s.tracker = nil
	}
	pending := s.pending
	s.pending = nil
	close(s.send)
	s.mu.Unlock()

	s.conn.Close()
	monitoring.ActiveSessions.Dec()

	if len(pending) > 0 {
		sub := &model.PerformanceSubmission{
			StudentID:   s.studentID,
			LectureID:   s.lectureID,
			Performance: pending,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.hub.Assessment.SubmitBatch(ctx, sub); err != nil {
			logger.Log.Error("flush playback batch failed",
				zap.String("student_id", s.studentID),
				zap.Int("records", len(pending)), zap.Error(err))
		}
	}

	logger.Log.Info("playback session closed",
		zap.String("student_id", s.studentID),
		zap.Uint("lecture_id", s.lectureID),
		zap.Int("records", len(pending)))

	s.hub.drop(s)
}
