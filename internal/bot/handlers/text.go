package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/dosewise/dosewise/internal/bot/keyboards"
	"github.com/dosewise/dosewise/internal/bot/state"
	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/logger"
)

// TextHandler handles text messages
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message according to the user's conversation state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	userState := h.stateManager.GetUserState(user.TelegramID)
	text := strings.TrimSpace(message.Text)

	switch userState {
	case state.WaitingForDoseText:
		return h.handleDoseText(ctx, message.Chat.ID, user, text)
	case state.WaitingForAmount:
		return h.handleAmount(ctx, message.Chat.ID, user, text)
	case state.WaitingForWeight:
		return h.handleWeight(ctx, message.Chat.ID, user, text)
	case state.WaitingForBirthYear:
		return h.handleBirthYear(ctx, message.Chat.ID, user, text)
	case state.WaitingForAllergies:
		return h.handleFreeTextProfile(ctx, message.Chat.ID, user, text, "allergies")
	case state.WaitingForMedications:
		return h.handleFreeTextProfile(ctx, message.Chat.ID, user, text, "medications")
	case state.WaitingForSleepTime:
		return h.handleSleepTime(ctx, message.Chat.ID, user, text)
	case state.WaitingForPeakTime:
		return h.handlePeakTime(ctx, message.Chat.ID, user, text)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Please use the menu to pick an action, or /help.")
		msg.ReplyMarkup = keyboards.BackToMain()
		_, err := h.api.Send(msg)
		return err
	}
}

// handleDoseText runs the AI parse over a free-text dose entry
func (h *TextHandler) handleDoseText(ctx context.Context, chatID int64, user *database.User, text string) error {
	processingMsg := tgbotapi.NewMessage(chatID, "Reading that...")
	sentMsg, err := h.api.Send(processingMsg)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	logger.Infof("Parsing dose text for user %d with Gemini", user.ID)
	result, err := h.deps.AIService.ParseDoseText(ctx, text, false)
	if err != nil {
		logger.Warnf("Gemini parse failed for user %d, trying OpenAI: %v", user.ID, err)
		result, err = h.deps.AIService.ParseDoseText(ctx, text, true)
		if err != nil {
			h.api.Send(tgbotapi.NewDeleteMessage(chatID, sentMsg.MessageID))
			msg := tgbotapi.NewMessage(chatID, "Sorry, I could not understand that entry. Try something like \"double espresso 20 minutes ago\".")
			_, sendErr := h.api.Send(msg)
			return sendErr
		}
	}

	h.api.Send(tgbotapi.NewDeleteMessage(chatID, sentMsg.MessageID))

	sub := engine.Substance(result.Substance)
	if _, err := engine.ConfigFor(sub); err != nil {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("I read that as %q, which I do not track. I handle caffeine, Adderall, Dexedrine and nicotine.", result.Substance))
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	loggedAt := time.Now().Add(-time.Duration(result.MinutesAgo) * time.Minute)
	amount := result.AmountMg
	if _, err := h.deps.DoseService.LogDose(ctx, user.ID, sub, &amount, loggedAt, "ai", result.Explanation); err != nil {
		msg := tgbotapi.NewMessage(chatID, "Could not save the dose. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)

	confirm := fmt.Sprintf("✅ Logged %.0f mg %s at %s (confidence: %s)",
		result.AmountMg, result.Substance, loggedAt.Format("3:04 PM"), result.Confidence)
	if result.Explanation != "" {
		confirm += "\n" + result.Explanation
	}
	msg := tgbotapi.NewMessage(chatID, confirm)
	msg.ReplyMarkup = keyboards.BackToMain()
	_, err = h.api.Send(msg)
	return err
}

// handleAmount saves a dose after a substance button prompt
func (h *TextHandler) handleAmount(ctx context.Context, chatID int64, user *database.User, text string) error {
	raw, ok := h.stateManager.GetTempData(user.TelegramID, "substance")
	if !ok {
		h.stateManager.SetUserState(user.TelegramID, state.None)
		msg := tgbotapi.NewMessage(chatID, "Please pick a substance first.")
		_, err := h.api.Send(msg)
		return err
	}
	sub := engine.Substance(fmt.Sprintf("%v", raw))

	var amount *float64
	if !strings.EqualFold(text, "default") {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil || value < 0 {
			msg := tgbotapi.NewMessage(chatID, "Please send a number of mg (for example 95), or \"default\".")
			_, sendErr := h.api.Send(msg)
			return sendErr
		}
		amount = &value
	}

	record, err := h.deps.DoseService.LogDose(ctx, user.ID, sub, amount, time.Now(), "manual", "")
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "Could not save the dose. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	h.stateManager.ClearTempData(user.TelegramID)

	mg := 0.0
	if record.AmountMg != nil {
		mg = *record.AmountMg
	} else if cfg, cfgErr := engine.ConfigFor(sub); cfgErr == nil {
		mg = cfg.DefaultDoseMg
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Logged %.0f mg %s.", mg, sub))
	msg.ReplyMarkup = keyboards.BackToMain()
	_, err = h.api.Send(msg)
	return err
}

func (h *TextHandler) handleWeight(ctx context.Context, chatID int64, user *database.User, text string) error {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value <= 0 || value > 500 {
		msg := tgbotapi.NewMessage(chatID, "Please send a weight in kilograms between 1 and 500 (for example 72.5).")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	if err := h.deps.ProfileService.SetWeight(ctx, user.ID, value); err != nil {
		return h.saveFailed(chatID)
	}
	return h.saved(chatID, user, fmt.Sprintf("✅ Weight set to %.1f kg.", value))
}

func (h *TextHandler) handleBirthYear(ctx context.Context, chatID int64, user *database.User, text string) error {
	year, err := strconv.Atoi(text)
	now := time.Now().Year()
	if err != nil || year < 1900 || year > now {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Please send a year between 1900 and %d.", now))
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	if err := h.deps.ProfileService.SetBirthYear(ctx, user.ID, year); err != nil {
		return h.saveFailed(chatID)
	}
	return h.saved(chatID, user, fmt.Sprintf("✅ Birth year set to %d.", year))
}

func (h *TextHandler) handleFreeTextProfile(ctx context.Context, chatID int64, user *database.User, text, field string) error {
	if text == "-" {
		text = ""
	}
	var err error
	switch field {
	case "allergies":
		err = h.deps.ProfileService.SetAllergies(ctx, user.ID, text)
	case "medications":
		err = h.deps.ProfileService.SetMedications(ctx, user.ID, text)
	}
	if err != nil {
		return h.saveFailed(chatID)
	}
	label := "Allergies"
	if field == "medications" {
		label = "Medications"
	}
	if text == "" {
		return h.saved(chatID, user, fmt.Sprintf("✅ %s cleared.", label))
	}
	return h.saved(chatID, user, fmt.Sprintf("✅ %s saved.", label))
}

func (h *TextHandler) handleSleepTime(ctx context.Context, chatID int64, user *database.User, text string) error {
	if _, err := time.Parse("15:04", text); err != nil {
		msg := tgbotapi.NewMessage(chatID, "Please send a time as HH:MM (for example 23:00).")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	if err := h.deps.UserService.SetSleepBy(ctx, user.ID, text); err != nil {
		return h.saveFailed(chatID)
	}
	user.SleepBy = text
	h.stateManager.SetUserState(user.TelegramID, state.None)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Bedtime set to %s. Cutoffs and sleep checks now use it.", text))
	msg.ReplyMarkup = keyboards.SettingsMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) handlePeakTime(ctx context.Context, chatID int64, user *database.User, text string) error {
	parsed, err := time.Parse("15:04", text)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "Please send a time as HH:MM (for example 14:30).")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	now := time.Now()
	peakAt := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if peakAt.Before(now) {
		peakAt = peakAt.AddDate(0, 0, 1)
	}

	suggestions, err := h.deps.RecommendSvc.PeakPlan(ctx, user, now, peakAt)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "Could not build the plan right now. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)

	msg := tgbotapi.NewMessage(chatID, formatPeakPlan(suggestions))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMain()
	if _, err := h.api.Send(msg); err != nil {
		msg.ParseMode = ""
		_, err = h.api.Send(msg)
		return err
	}
	return nil
}

func (h *TextHandler) saved(chatID int64, user *database.User, text string) error {
	h.stateManager.SetUserState(user.TelegramID, state.None)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.ProfileMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) saveFailed(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Could not save that. Please try again.")
	_, err := h.api.Send(msg)
	return err
}
