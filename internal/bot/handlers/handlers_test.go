package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/repository"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

type fakeAPI struct {
	mu             sync.Mutex
	sent           []tgbotapi.Chattable
	requests       []tgbotapi.Chattable
	fileURL        string
	rejectMarkdown bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	if m, ok := c.(tgbotapi.MessageConfig); ok && f.rejectMarkdown && m.ParseMode != "" {
		return tgbotapi.Message{}, errors.New("Bad Request: can't parse entities")
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + fileID, nil
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.PhotoConfig:
			out = append(out, m.Caption)
		}
	}
	return out
}

func (f *fakeAPI) last() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeExtractor struct {
	result    *services.MealExtraction
	lastImage string
}

func (f *fakeExtractor) ExtractMeal(_ context.Context, _ string) (*services.MealExtraction, error) {
	return f.result, nil
}

func (f *fakeExtractor) ExtractMealFromImage(_ context.Context, imageURL string) (*services.MealExtraction, error) {
	f.lastImage = imageURL
	return f.result, nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

type harness struct {
	api     *fakeAPI
	events  *repository.MemoryEventStore
	users   *repository.MemoryUserStore
	states  *state.Manager
	ex      *fakeExtractor
	gen     *fakeGenerator
	handler *UpdateHandler
}

const (
	telegramID = int64(7)
	chatID     = int64(100)
)

func newHarness() *harness {
	h := &harness{
		api:    &fakeAPI{fileURL: "https://files.example/"},
		events: repository.NewMemoryEventStore(),
		users:  repository.NewMemoryUserStore(diet.Strict),
		states: state.NewManager(),
		ex: &fakeExtractor{result: &services.MealExtraction{
			IsFood:      true,
			Summary:     "Ribeye steak",
			Ingredients: []string{"ribeye"},
			Calories:    800, ProteinG: 60, FatG: 60,
		}},
		gen: &fakeGenerator{reply: "Ribeye with butter"},
	}
	analytics := services.NewAnalyticsService(h.events, h.users, time.UTC)
	deps := Dependencies{
		UserService:  services.NewUserService(h.users),
		MealSvc:      services.NewMealService(h.ex, h.events, nil, nil),
		TrackingSvc:  services.NewTrackingService(h.events, time.UTC),
		AnalyticsSvc: analytics,
		AdvisorSvc:   services.NewAdvisorService(h.gen, analytics, nil, nil),
	}
	h.handler = NewUpdateHandler(h.api, deps, h.states, time.UTC)
	return h
}

var from = &tgbotapi.User{ID: telegramID, FirstName: "Sam", UserName: "meatlover"}

func message(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{MessageID: 1, From: from, Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
	if strings.HasPrefix(text, "/") {
		n := strings.IndexByte(text, ' ')
		if n < 0 {
			n = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}}
	}
	return tgbotapi.Update{Message: msg}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    from,
		Message: &tgbotapi.Message{MessageID: 2, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func (h *harness) handle(t *testing.T, u tgbotapi.Update) {
	t.Helper()
	require.NoError(t, h.handler.Handle(context.Background(), u))
}

func (h *harness) user(t *testing.T) *domain.User {
	t.Helper()
	u, err := h.users.GetUserByTelegramID(context.Background(), telegramID)
	require.NoError(t, err)
	return u
}

func TestStartRegistersUserAndShowsMenu(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/start"))

	u := h.user(t)
	assert.Equal(t, "meatlover", u.Username)
	assert.Contains(t, h.api.last(), "Carnivore Helper")
	assert.Contains(t, h.api.last(), "Sam")

	msg := h.api.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, chatID, msg.ChatID)
	assert.NotNil(t, msg.ReplyMarkup)
}

func TestPlainTextIsLoggedAsMeal(t *testing.T) {
	h := newHarness()
	h.handle(t, message("300g ribeye"))

	assert.Contains(t, h.api.last(), "Strict carnivore")
	assert.Contains(t, h.api.last(), "Ribeye steak")

	// progress placeholder is removed
	require.Len(t, h.api.requests, 1)
	_, ok := h.api.requests[0].(tgbotapi.DeleteMessageConfig)
	assert.True(t, ok)

	meals, err := h.events.ListMeals(context.Background(), h.user(t).ID, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, domain.SourceText, meals[0].Source)
}

func TestNotFoodGetsFriendlyReply(t *testing.T) {
	h := newHarness()
	h.ex.result = &services.MealExtraction{IsFood: false}

	h.handle(t, message("what's the weather like"))
	assert.Contains(t, h.api.last(), "doesn't look like food")

	h.handle(t, message("/notes"))
	assert.Contains(t, h.api.last(), "Today's notes")
	assert.Contains(t, h.api.last(), "what's the weather like")
}

func TestWeightPromptFlow(t *testing.T) {
	h := newHarness()
	h.handle(t, callback("weight"))
	assert.Equal(t, state.WaitingForWeight, h.states.GetUserState(telegramID))

	h.handle(t, message("heavy"))
	assert.Contains(t, h.api.last(), "between 30 and 300")
	assert.Equal(t, state.WaitingForWeight, h.states.GetUserState(telegramID))

	h.handle(t, message("85,5"))
	assert.Contains(t, h.api.last(), "85.5 kg")
	assert.Equal(t, state.None, h.states.GetUserState(telegramID))

	h.handle(t, message("/weight 84.7"))
	assert.Contains(t, h.api.last(), "📉 Change: -0.8 kg")
}

func TestSymptomButtonsFlow(t *testing.T) {
	h := newHarness()
	h.handle(t, callback("symptom:cramps"))
	assert.Equal(t, state.WaitingForSymptomSeverity, h.states.GetUserState(telegramID))

	h.handle(t, callback("severity:4"))
	assert.Contains(t, h.api.last(), "Symptom logged")
	assert.Equal(t, state.None, h.states.GetUserState(telegramID))
	_, ok := h.states.GetTempData(telegramID, state.KeySymptomType)
	assert.False(t, ok)

	list, err := h.events.ListSymptoms(context.Background(), h.user(t).ID, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SymptomCramps, list[0].Type)
	assert.Equal(t, 4, list[0].Severity)
}

func TestSymptomCommandRejectsOutOfRangeSeverity(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/symptom headache 9"))
	assert.Contains(t, h.api.last(), "from 1 to 5")

	h.handle(t, message("/symptom headache 2 after coffee"))
	assert.Contains(t, h.api.last(), "Symptom logged")
}

func TestFastCommands(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/faststatus"))
	assert.Contains(t, h.api.last(), "No active fast")

	h.handle(t, message("/fast"))
	assert.Contains(t, h.api.last(), "Fast started")

	h.handle(t, message("/faststatus"))
	assert.Contains(t, h.api.last(), "Fast in progress")
	assert.Contains(t, h.api.last(), "Early fast")

	h.handle(t, message("/fast"))
	assert.Contains(t, h.api.last(), "Fast finished")
}

func TestGoalsAndStats(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/goals 2000 150 140g"))
	assert.Contains(t, h.api.last(), "Goals saved")

	h.handle(t, message("/goals 2000 -1 140"))
	assert.Contains(t, h.api.last(), "⚠️")

	h.handle(t, message("ribeye"))
	h.handle(t, message("/stats"))
	assert.Contains(t, h.api.last(), "60/150g")
}

func TestLevelCallback(t *testing.T) {
	h := newHarness()
	h.handle(t, callback("level:relaxed"))
	assert.Equal(t, diet.Relaxed, h.user(t).PreferredLevel)
	assert.Contains(t, h.api.last(), "Relaxed carnivore")

	h.handle(t, callback("level:dirty"))
	assert.Equal(t, diet.Relaxed, h.user(t).PreferredLevel)
}

func TestPhotoUsesDirectFileURL(t *testing.T) {
	h := newHarness()
	u := message("")
	u.Message.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}

	h.handle(t, u)
	assert.Equal(t, "https://files.example/large", h.ex.lastImage)

	photo, ok := h.api.sent[len(h.api.sent)-1].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Contains(t, photo.Caption, "Ribeye steak")
}

func TestVoiceWithoutCaptionAsksForText(t *testing.T) {
	h := newHarness()
	u := message("")
	u.Message.Voice = &tgbotapi.Voice{FileID: "v"}

	h.handle(t, u)
	assert.Contains(t, h.api.last(), "can't listen")
	assert.Empty(t, h.ex.lastImage)
}

func TestMarkdownRejectionFallsBackToPlainText(t *testing.T) {
	h := newHarness()
	h.api.rejectMarkdown = true

	h.handle(t, message("/faststatus"))
	require.Len(t, h.api.sent, 2)
	assert.Equal(t, "", h.api.sent[1].(tgbotapi.MessageConfig).ParseMode)
}

func TestCheckCommandDoesNotLog(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/check ribeye, bread"))
	assert.Contains(t, h.api.last(), "bread")

	meals, err := h.events.ListMeals(context.Background(), h.user(t).ID, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestUpdatesWithoutSenderAreIgnored(t *testing.T) {
	h := newHarness()
	h.handle(t, tgbotapi.Update{})
	assert.Empty(t, h.api.sent)
}

func TestSuggestFallsBackAndShowsRemainingGoals(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/goals 2000 150 140"))
	h.handle(t, message("ribeye"))

	h.gen.err = errors.New("model down")
	h.handle(t, message("/suggest"))
	assert.Contains(t, h.api.last(), services.FallbackSuggestion)
	assert.Contains(t, h.api.last(), "1200 kcal")
	assert.Contains(t, h.api.last(), "90g protein")
}

func TestRecipeShowsVerdict(t *testing.T) {
	h := newHarness()
	h.gen.reply = `{"name": "Butter steak", "ingredients": ["ribeye", "bread"], "steps": ["sear"]}`

	h.handle(t, message("/recipe steak"))
	assert.Contains(t, h.api.last(), "Butter steak")
	assert.Contains(t, h.api.last(), "🚫 bread")
}

func TestPlanWeekReportsUnavailableModel(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/plan_week"))
	assert.Contains(t, h.api.last(), "Weekly plan")

	h.gen.err = apperrors.NewExternalAPIError(errors.New("503"), "gemini")
	h.handle(t, message("/plan_tomorrow"))
	assert.Contains(t, h.api.last(), "unavailable")
}

func TestExportSendsDocument(t *testing.T) {
	h := newHarness()
	h.handle(t, message("ribeye"))
	h.handle(t, message("/export csv"))

	doc, ok := h.api.sent[len(h.api.sent)-1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, chatID, doc.ChatID)
	assert.Contains(t, doc.Caption, "CSV export (daily), 1 meal")

	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(file.Name, ".csv"))
	assert.Contains(t, string(file.Bytes), "Ribeye steak")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := newHarness()
	h.handle(t, message("/export"))
	assert.Contains(t, h.api.last(), "Usage")

	h.handle(t, message("/export html"))
	assert.Contains(t, h.api.last(), "unknown export format")
}
