package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// defaultLimit applies when a request carries no limit.
const defaultLimit = 20

// Server handles the IPC for word completions
type Server struct {
	completer    suggest.ICompleter
	config       *config.ServerConfig
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
	log          *log.Logger

	// settings and configPath are set by WithConfigFile.
	settings   *config.Config
	configPath string
}

// NewServer creates a completion server reading requests from r and
// writing responses to w.
func NewServer(completer suggest.ICompleter, cfg *config.ServerConfig, r io.Reader, w io.Writer) *Server {
	writer := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		config:    cfg,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    writer,
		encoder:   msgpack.NewEncoder(writer),
		log:       logger.New("server"),
	}
}

// WithConfigFile lets config requests change cfg and save it to path. The
// server then reads its limits from cfg.Server.
func (s *Server) WithConfigFile(cfg *config.Config, path string) *Server {
	s.settings = cfg
	s.configPath = path
	s.config = &cfg.Server
	return s
}

// Start sends the ready message and serves requests until the input ends.
func (s *Server) Start() error {
	s.log.Debug("Starting server", "words", s.completer.Size())
	if err := s.send(StatusMessage{Status: "ready", Words: s.completer.Size()}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed", "requests", s.requestCount)
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			// The stream cannot be resynchronised after a broken frame.
			if sendErr := s.sendError("", "invalid msgpack request", 400); sendErr != nil {
				return sendErr
			}
			return fmt.Errorf("decode request: %w", err)
		}

		s.requestCount++
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action and writes exactly one response.
func (s *Server) handleRequest(req Request) error {
	switch req.Action {
	case ActionComplete:
		return s.handleComplete(req)
	case ActionAdd:
		return s.handleAdd(req)
	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Stats: s.completer.Stats()})
	case ActionConfig:
		return s.handleConfig(req)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) error {
	prefix := req.Prefix
	length := utf8.RuneCountInString(prefix)

	if length < s.config.MinPrefix {
		s.log.Debug("Prefix is too short", "id", req.ID, "prefix", prefix)
		return s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", s.config.MinPrefix), 400)
	}
	if length > s.config.MaxPrefix {
		s.log.Debug("Prefix is too long", "id", req.ID, "length", length)
		return s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", s.config.MaxPrefix), 400)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = min(defaultLimit, s.config.MaxLimit)
	}
	limit = min(limit, s.config.MaxLimit)

	start := time.Now()
	var suggestions []suggest.Suggestion
	if !s.config.EnableFilter || prefix == "" || utils.IsValidInput(prefix) {
		suggestions = s.completer.Complete(prefix, limit)
	}
	elapsed := time.Since(start)

	resp := CompletionResponse{
		ID:          req.ID,
		Suggestions: make([]CompletionSuggestion, len(suggestions)),
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
	for i, sg := range suggestions {
		resp.Suggestions[i] = CompletionSuggestion{Word: sg.Word, Rank: sg.Rank}
	}
	s.log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)
	return s.send(resp)
}

func (s *Server) handleAdd(req Request) error {
	if len(req.Words) == 0 {
		return s.sendError(req.ID, "no words to add", 400)
	}

	added := 0
	for _, w := range req.Words {
		before := s.completer.Size()
		if err := s.completer.AddWord(w); err != nil {
			s.log.Warnf("Rejected word '%s': %v", w, err)
			continue
		}
		if s.completer.Size() > before {
			added++
		}
	}
	s.log.Debug("Added words", "id", req.ID, "added", added, "sent", len(req.Words))
	return s.send(AddResponse{ID: req.ID, Added: added, Total: s.completer.Size()})
}

func (s *Server) handleConfig(req Request) error {
	if u := req.Config; u != nil {
		if s.settings == nil {
			return s.sendError(req.ID, "config updates are disabled", 403)
		}
		if err := s.settings.Update(s.configPath, u.MaxLimit, u.MinPrefix, u.MaxPrefix, u.EnableFilter); err != nil {
			s.log.Warnf("Rejected config update: %v", err)
			return s.sendError(req.ID, err.Error(), 400)
		}
		s.log.Info("Config updated", "id", req.ID, "path", s.configPath)
	}

	return s.send(ConfigResponse{
		ID:           req.ID,
		Status:       "ok",
		MaxLimit:     s.config.MaxLimit,
		MinPrefix:    s.config.MinPrefix,
		MaxPrefix:    s.config.MaxPrefix,
		EnableFilter: s.config.EnableFilter,
	})
}

// send encodes one response and flushes it so the client sees it at once.
func (s *Server) send(v any) error {
	if err := s.encoder.Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
