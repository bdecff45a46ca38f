package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureHistory = "ai-history"

const (
	opServiceNew = "assistant.service.new"
	opAnalyze    = "assistant.analyze"
)

var (
	errMissingStore = errors.New("store is required")
	errEmptyPrompt  = errors.New("prompt must not be empty")
	errEmptyImage   = errors.New("image data must not be empty")
	errUnknownKind  = errors.New("unknown analysis kind")
	errBadImageData = errors.New("image data is not valid base64")
)

// ServiceConfig describes the dependencies of the assistant service.
type ServiceConfig struct {
	Store      *store.Store
	Client     *Client
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service answers chat prompts and image analyses, recording every
// interaction in the capped per-user history.
type Service struct {
	history *store.Collection[HistoryEntry]
	client  *Client
	clock   func() time.Time
	logger  *zap.Logger
}

// NewService constructs the assistant service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	history, err := store.NewCollection(store.CollectionConfig[HistoryEntry]{
		Store:      cfg.Store,
		Feature:    featureHistory,
		Cap:        HistoryCap,
		Clock:      clock,
		IDProvider: cfg.IDProvider,
		Logger:     logger,
		Stamp: func(entity *HistoryEntry, id string, now time.Time) {
			entity.ID = id
			entity.Timestamp = now
		},
		ID: func(entity HistoryEntry) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}
	return &Service{history: history, client: cfg.Client, clock: clock, logger: logger}, nil
}

// ChatRequest is one chat turn.
type ChatRequest struct {
	Prompt   string
	Context  string
	Language string
	Kind     EntryKind
}

// Chat answers the prompt and appends the exchange to the user's history.
// Model failures degrade to the fallback answer rather than erroring.
func (s *Service) Chat(ctx context.Context, userID string, request ChatRequest) (ChatResult, error) {
	if request.Prompt == "" {
		return ChatResult{}, svcerr.New("assistant.chat", "empty_prompt", errEmptyPrompt)
	}
	kind := request.Kind
	if kind == "" {
		kind = EntryKindText
	}

	prompt := request.Prompt
	if request.Context != "" {
		prompt = fmt.Sprintf("Context: %s\n\nQuestion: %s", request.Context, request.Prompt)
	}

	result := ChatResult{}
	raw, err := s.client.GenerateText(ctx, systemPrompt(request.Language), prompt)
	if err != nil {
		if !errors.Is(err, ErrUnconfigured) {
			s.logger.Warn("chat generation failed, using fallback", zap.Error(err))
		}
		result.Answer = fallbackAnswer(request.Language)
		result.Fallback = true
	} else {
		result.Answer = cleanResponse(raw)
	}

	if _, err := s.history.Add(ctx, userID, HistoryEntry{
		Kind:     kind,
		Question: request.Prompt,
		Answer:   result.Answer,
		Language: request.Language,
	}); err != nil {
		return ChatResult{}, err
	}
	return result, nil
}

// AnalyzeRequest is one image analysis call.
type AnalyzeRequest struct {
	ImageBase64 string
	MimeType    string
	Kind        AnalysisKind
	Language    string
}

// AnalyzeImage runs the vision prompt for the analysis kind and parses the
// reply as JSON, substituting the templated verdict when parsing fails.
func (s *Service) AnalyzeImage(ctx context.Context, userID string, request AnalyzeRequest) (Analysis, error) {
	if request.ImageBase64 == "" {
		return Analysis{}, svcerr.New(opAnalyze, "empty_image", errEmptyImage)
	}
	if !ValidAnalysisKind(string(request.Kind)) {
		return Analysis{}, svcerr.New(opAnalyze, "unknown_kind", errUnknownKind)
	}
	imageData, err := base64.StdEncoding.DecodeString(request.ImageBase64)
	if err != nil {
		return Analysis{}, svcerr.New(opAnalyze, "invalid_base64", errBadImageData)
	}
	mimeType := request.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	analysis := Analysis{Kind: request.Kind}
	raw, err := s.client.GenerateFromImage(ctx, analysisPrompt(request.Kind, request.Language), imageData, mimeType)
	if err != nil {
		if !errors.Is(err, ErrUnconfigured) {
			s.logger.Warn("image analysis failed, using fallback", zap.Error(err))
		}
		analysis.Verdict = fallbackVerdict(request.Kind, request.Language)
		analysis.Fallback = true
	} else {
		analysis.Verdict, analysis.Fallback = parseVerdict(raw, request.Kind, request.Language)
		if analysis.Fallback {
			analysis.RawText = cleanResponse(raw)
		}
	}

	summary := summarizeVerdict(analysis)
	if _, err := s.history.Add(ctx, userID, HistoryEntry{
		Kind:     EntryKindImage,
		Question: string(request.Kind),
		Answer:   summary,
		Language: request.Language,
	}); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// History returns the user's interactions newest first.
func (s *Service) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	return s.history.List(ctx, userID)
}

// ClearHistory empties the user's interaction history.
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	return s.history.Clear(ctx, userID)
}

func parseVerdict(raw string, kind AnalysisKind, language string) (map[string]interface{}, bool) {
	candidate, ok := extractJSON(raw)
	if !ok {
		return fallbackVerdict(kind, language), true
	}
	var verdict map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &verdict); err != nil {
		return fallbackVerdict(kind, language), true
	}
	return verdict, false
}

func summarizeVerdict(analysis Analysis) string {
	encoded, err := json.Marshal(analysis.Verdict)
	if err != nil {
		return analysis.RawText
	}
	return string(encoded)
}
