package service

import (
	"context"
	"encoding/json"
	"fmt"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/repository"
	"simtrain_backend/internal/util"
	"simtrain_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// gameStateTTL bounds abandoned in-progress games in Redis.
const gameStateTTL = 24 * time.Hour

// GameService runs the simulation lifecycle: the LLM generates a scenario at
// start, answers in character during play, and produces the three-parameter
// score at the end. In-progress state lives in Redis; only finished sessions
// are written to the database, and never mutated afterwards.
type GameService struct {
	SessionRepo *repository.GameSessionRepository
	AI          *AIService
	Redis       *redis.Client
}

func NewGameService(sessionRepo *repository.GameSessionRepository, ai *AIService, rdb *redis.Client) *GameService {
	return &GameService{
		SessionRepo: sessionRepo,
		AI:          ai,
		Redis:       rdb,
	}
}

// ActiveGame is the transient state of one in-progress play-through.
type ActiveGame struct {
	SessionID string          `json:"sessionId"`
	UserID    uint            `json:"userId"`
	GameType  string          `json:"gameType"`
	CaseTitle string          `json:"caseTitle"`
	Briefing  string          `json:"briefing"`
	History   []AIChatMessage `json:"history"`
	StartedAt time.Time       `json:"startedAt"`
	HintsUsed int             `json:"hintsUsed"`
}

type scenarioPayload struct {
	Title    string `json:"title"`
	Briefing string `json:"briefing"`
}

type scorePayload struct {
	Parameter1 *float64 `json:"parameter1"`
	Parameter2 *float64 `json:"parameter2"`
	Parameter3 *float64 `json:"parameter3"`
	Overall    *float64 `json:"overall"`
	CaseSolved bool     `json:"caseSolved"`
	Summary    string   `json:"summary"`
}

// StartGame creates a new scenario for the given raw game type and parks it
// in Redis until the player finishes.
func (s *GameService) StartGame(userID uint, rawType string) (*ActiveGame, error) {
	display := model.GameTypeDisplayName(rawType)

	prompt := fmt.Sprintf(
		"Create a new %s training scenario. Respond with a JSON object only: "+
			`{"title": "<short case title>", "briefing": "<2-3 paragraph opening briefing for the trainee>"}`,
		display)

	content, err := s.AI.Chat(scenarioSystemPrompt(display), nil, prompt)
	if err != nil {
		return nil, err
	}

	var scenario scenarioPayload
	if raw := extractJSONObject(content); raw != "" {
		json.Unmarshal([]byte(raw), &scenario)
	}
	if scenario.Title == "" {
		scenario.Title = display + " Case"
	}
	if scenario.Briefing == "" {
		scenario.Briefing = content
	}

	game := &ActiveGame{
		SessionID: uuid.New().String(),
		UserID:    userID,
		GameType:  rawType,
		CaseTitle: scenario.Title,
		Briefing:  scenario.Briefing,
		StartedAt: time.Now(),
		History: []AIChatMessage{
			{Role: "assistant", Content: scenario.Briefing},
		},
	}

	if err := s.saveState(game); err != nil {
		return nil, err
	}
	return game, nil
}

// ProcessAction sends one player action to the scenario and records both
// sides of the exchange. hint=true counts against the player's score.
func (s *GameService) ProcessAction(userID uint, sessionID, action string, hint bool) (string, error) {
	game, err := s.loadState(userID, sessionID)
	if err != nil {
		return "", err
	}

	if hint {
		game.HintsUsed++
		action = "[HINT REQUESTED] " + action
	}

	reply, err := s.AI.Chat(gameplaySystemPrompt(game), game.History, action)
	if err != nil {
		return "", err
	}

	game.History = append(game.History,
		AIChatMessage{Role: "user", Content: action},
		AIChatMessage{Role: "assistant", Content: reply},
	)
	if err := s.saveState(game); err != nil {
		return "", err
	}
	return reply, nil
}

// StreamAction is the streaming variant of ProcessAction. The full reply is
// appended to the game history once the stream completes.
func (s *GameService) StreamAction(userID uint, sessionID, action string) (<-chan string, <-chan error, error) {
	game, err := s.loadState(userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	inner, innerErr := s.AI.ChatStream(gameplaySystemPrompt(game), game.History, action)

	out := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errChan)

		var full strings.Builder
		for chunk := range inner {
			full.WriteString(chunk)
			out <- chunk
		}
		if err := <-innerErr; err != nil {
			errChan <- err
			return
		}

		game.History = append(game.History,
			AIChatMessage{Role: "user", Content: action},
			AIChatMessage{Role: "assistant", Content: full.String()},
		)
		if err := s.saveState(game); err != nil {
			logger.Log.Warn("failed to persist game state after stream",
				zap.String("session", sessionID), zap.Error(err))
		}
	}()

	return out, errChan, nil
}

// EndGame asks the LLM for the final evaluation and persists the finished
// session. A malformed or failed evaluation degrades to a session without a
// score breakdown; it never fails the call.
func (s *GameService) EndGame(userID uint, sessionID string) (*model.GameSession, error) {
	game, err := s.loadState(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session := &model.GameSession{
		SessionID:   game.SessionID,
		UserID:      game.UserID,
		GameType:    game.GameType,
		CaseTitle:   game.CaseTitle,
		StartedAt:   game.StartedAt,
		ElapsedTime: int(time.Since(game.StartedAt).Seconds()),
		HintsUsed:   game.HintsUsed,
	}

	if breakdown, solved := s.evaluate(game); breakdown != nil {
		session.Breakdown = breakdown
		session.OverallScore = breakdown.Overall
		session.CaseSolved = solved
	}

	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	s.Redis.Del(context.Background(), gameStateKey(sessionID))
	return session, nil
}

// evaluate runs the scoring prompt and parses the result. Returns nil when
// the LLM output cannot be interpreted.
func (s *GameService) evaluate(game *ActiveGame) (*model.ScoreBreakdown, bool) {
	canonical := model.ResolveCanonicalType(game.GameType)
	labels := model.ParameterLabelsFor(canonical)

	p1, p2, p3 := "Parameter 1", "Parameter 2", "Parameter 3"
	if labels != nil {
		p1, p2, p3 = labels.Param1, labels.Param2, labels.Param3
	}

	prompt := fmt.Sprintf(
		"The session is over. Evaluate the trainee's performance. Respond with a JSON object only:\n"+
			`{"parameter1": <0-10 score for %s>, "parameter2": <0-10 score for %s>, "parameter3": <0-10 score for %s>, `+
			`"overall": <0-100 overall score>, "caseSolved": <true|false>, "summary": "<3-4 sentence evaluation>"}`,
		p1, p2, p3)

	content, err := s.AI.Chat(gameplaySystemPrompt(game), game.History, prompt)
	if err != nil {
		logger.Log.Warn("session evaluation failed",
			zap.String("session", game.SessionID), zap.Error(err))
		return nil, false
	}

	raw := extractJSONObject(content)
	if raw == "" {
		return nil, false
	}
	var score scorePayload
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		return nil, false
	}

	breakdown := &model.ScoreBreakdown{
		Parameter1: clampScore(score.Parameter1, 10),
		Parameter2: clampScore(score.Parameter2, 10),
		Parameter3: clampScore(score.Parameter3, 10),
		Overall:    clampScore(score.Overall, 100),
		Summary:    score.Summary,
	}
	if breakdown.Parameter1 != nil {
		breakdown.Parameter1Name = p1
	}
	if breakdown.Parameter2 != nil {
		breakdown.Parameter2Name = p2
	}
	if breakdown.Parameter3 != nil {
		breakdown.Parameter3Name = p3
	}
	return breakdown, score.CaseSolved
}

func (s *GameService) saveState(game *ActiveGame) error {
	payload, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.Redis.Set(context.Background(), gameStateKey(game.SessionID), payload, gameStateTTL).Err()
}

func (s *GameService) loadState(userID uint, sessionID string) (*ActiveGame, error) {
	val, err := s.Redis.Get(context.Background(), gameStateKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var game ActiveGame
	if err := json.Unmarshal([]byte(val), &game); err != nil {
		return nil, err
	}
	if game.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return &game, nil
}

func gameStateKey(sessionID string) string {
	return "game:" + sessionID
}

func scenarioSystemPrompt(displayName string) string {
	return fmt.Sprintf(
		"You are the scenario engine of a %s training simulation. You create realistic, "+
			"professionally plausible training cases and run them interactively. Stay in character "+
			"at all times and never reveal the solution unprompted.", displayName)
}

func gameplaySystemPrompt(game *ActiveGame) string {
	return fmt.Sprintf(
		"You are running the training case %q (%s). Opening briefing:\n\n%s\n\n"+
			"Respond to the trainee's actions in character. Reward methodical investigation; "+
			"if a hint is requested, give a nudge, not the answer.",
		game.CaseTitle, model.GameTypeDisplayName(game.GameType), game.Briefing)
}

// extractJSONObject pulls the outermost {...} from an LLM reply, tolerating
// prose or code fences around it. Empty string when none is found.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func clampScore(v *float64, max float64) *float64 {
	if v == nil {
		return nil
	}
	value := *v
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	return &value
}
