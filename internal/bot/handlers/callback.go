package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/dosewise/dosewise/internal/bot/keyboards"
	"github.com/dosewise/dosewise/internal/bot/menus"
	"github.com/dosewise/dosewise/internal/bot/state"
	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/engine"
	"github.com/dosewise/dosewise/internal/services"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		return err
	}

	chatID := query.Message.Chat.ID
	data := query.Data

	if sub, ok := strings.CutPrefix(data, "log_"); ok && data != "log_dose" && data != "log_freetext" {
		return h.handleLogSubstance(chatID, user, engine.Substance(sub))
	}
	if sub, ok := strings.CutPrefix(data, "toggle_"); ok {
		return h.handleToggleSubstance(ctx, chatID, user, engine.Substance(sub))
	}

	switch data {
	case "main_menu":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, chatID)
	case "log_dose":
		return menus.SendLogMenu(h.api, chatID, user)
	case "log_freetext":
		return h.handleLogFreeText(chatID, user)
	case "undo":
		return h.handleUndo(ctx, chatID, user)
	case "status":
		return h.handleStatus(ctx, chatID, user)
	case "next_dose":
		return h.handleNextDose(ctx, chatID, user)
	case "sleep_check":
		return h.handleSleepCheck(ctx, chatID, user)
	case "peak_plan":
		return h.handlePeakPlan(chatID, user)
	case "settings":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendSettingsMenu(h.api, chatID, user)
	case "set_mode":
		return h.handleSetMode(chatID)
	case "mode_health":
		return h.handleModeChosen(ctx, chatID, user, engine.ModeHealth)
	case "mode_productivity":
		return h.handleModeChosen(ctx, chatID, user, engine.ModeProductivity)
	case "set_sleep":
		return h.prompt(chatID, user, state.WaitingForSleepTime,
			"What time do you want to be asleep by? Send it as HH:MM (for example 23:00).", "settings")
	case "substances":
		return h.handleSubstances(chatID, user)
	case "profile":
		return menus.SendProfileMenu(h.api, chatID)
	case "set_weight":
		return h.prompt(chatID, user, state.WaitingForWeight,
			"Send your weight in kilograms (for example 72.5).", "profile")
	case "set_birthyear":
		return h.prompt(chatID, user, state.WaitingForBirthYear,
			"Send your birth year (for example 1988).", "profile")
	case "set_allergies":
		return h.prompt(chatID, user, state.WaitingForAllergies,
			"List allergies separated by commas (for example: caffeine, tobacco). Send \"-\" to clear.", "profile")
	case "set_medications":
		return h.prompt(chatID, user, state.WaitingForMedications,
			"List current medications separated by commas (for example: fluvoxamine, lithium). Send \"-\" to clear.", "profile")
	case "set_sex":
		msg := tgbotapi.NewMessage(chatID, "Sex (used for the caffeine clearance model):")
		msg.ReplyMarkup = keyboards.SexMenu()
		_, err := h.api.Send(msg)
		return err
	case "sex_female":
		return h.handleProfileChoice(ctx, chatID, user, "sex", engine.SexFemale)
	case "sex_male":
		return h.handleProfileChoice(ctx, chatID, user, "sex", engine.SexMale)
	case "set_smoking":
		msg := tgbotapi.NewMessage(chatID, "Smoking status (smoking roughly halves caffeine's half-life):")
		msg.ReplyMarkup = keyboards.SmokingMenu()
		_, err := h.api.Send(msg)
		return err
	case "smoking_smoker":
		return h.handleProfileChoice(ctx, chatID, user, "smoking", engine.SmokingSmoker)
	case "smoking_non_smoker":
		return h.handleProfileChoice(ctx, chatID, user, "smoking", engine.SmokingNonSmoker)
	default:
		return h.handleUnknownCallback(chatID)
	}
}

// handleLogSubstance asks for the amount after a substance button was tapped
func (h *CallbackHandler) handleLogSubstance(chatID int64, user *database.User, sub engine.Substance) error {
	cfg, err := engine.ConfigFor(sub)
	if err != nil {
		return h.handleUnknownCallback(chatID)
	}

	h.stateManager.SetUserState(user.TelegramID, state.WaitingForAmount)
	h.stateManager.SetTempData(user.TelegramID, "substance", string(sub))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "log_dose"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"How many mg of %s? Send a number, or \"default\" for the usual %.0f mg.",
		strings.ToLower(cfg.Label), cfg.DefaultDoseMg))
	msg.ReplyMarkup = keyboard
	_, err = h.api.Send(msg)
	return err
}

// handleLogFreeText switches to AI-parsed free-text dose entry
func (h *CallbackHandler) handleLogFreeText(chatID int64, user *database.User) error {
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForDoseText)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "log_dose"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, "Describe the dose in words, for example:\n"+
		"• \"double espresso 20 minutes ago\"\n"+
		"• \"half a 20mg adderall\"\n"+
		"• \"two cigarettes\"")
	msg.ReplyMarkup = keyboard
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleUndo(ctx context.Context, chatID int64, user *database.User) error {
	if err := h.deps.DoseService.UndoLast(ctx, user.ID); err != nil {
		msg := tgbotapi.NewMessage(chatID, "Nothing to undo.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	msg := tgbotapi.NewMessage(chatID, "↩️ Last dose removed.")
	msg.ReplyMarkup = keyboards.BackToMain()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleStatus(ctx context.Context, chatID int64, user *database.User) error {
	report, err := h.deps.RecommendSvc.Status(ctx, user, time.Now())
	if err != nil {
		return h.sendPlain(chatID, "Could not build your status right now. Please try again.")
	}
	return h.sendMarkdown(chatID, formatStatus(report))
}

func (h *CallbackHandler) handleNextDose(ctx context.Context, chatID int64, user *database.User) error {
	now := time.Now()
	windows, err := h.deps.RecommendSvc.NextDoseWindows(ctx, user, now)
	if err != nil {
		return h.sendPlain(chatID, "Could not compute dose windows right now. Please try again.")
	}
	cutoffs, err := h.deps.RecommendSvc.Cutoffs(ctx, user, now)
	if err != nil {
		return h.sendPlain(chatID, "Could not compute cutoffs right now. Please try again.")
	}
	return h.sendMarkdown(chatID, formatWindows(windows, cutoffs))
}

func (h *CallbackHandler) handleSleepCheck(ctx context.Context, chatID int64, user *database.User) error {
	readiness, err := h.deps.RecommendSvc.SleepReadiness(ctx, user, time.Now())
	if err != nil {
		return h.sendPlain(chatID, "Could not run the sleep check right now. Please try again.")
	}
	return h.sendMarkdown(chatID, formatSleepReadiness(readiness))
}

func (h *CallbackHandler) handlePeakPlan(chatID int64, user *database.User) error {
	return h.prompt(chatID, user, state.WaitingForPeakTime,
		"When do you want peak effect? Send a time as HH:MM (for example 14:30).", "main_menu")
}

func (h *CallbackHandler) handleSetMode(chatID int64) error {
	text := `Pick a recommendation mode:

🌿 *Health* keeps doses conservative and protects sleep hard.
🚀 *Productivity* allows tighter spacing and later cutoffs. Daily safety ceilings still apply.`
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.ModeMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleModeChosen(ctx context.Context, chatID int64, user *database.User, mode engine.Mode) error {
	if err := h.deps.UserService.SetMode(ctx, user.ID, mode); err != nil {
		return h.sendPlain(chatID, "Could not save the mode. Please try again.")
	}
	user.Mode = string(mode)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Mode set to %s.", mode))
	msg.ReplyMarkup = keyboards.SettingsMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleSubstances(chatID int64, user *database.User) error {
	msg := tgbotapi.NewMessage(chatID, "Which substances should I track?")
	msg.ReplyMarkup = keyboards.SubstancesMenu(services.EnabledSubstances(user))
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleToggleSubstance(ctx context.Context, chatID int64, user *database.User, sub engine.Substance) error {
	enabled, err := h.deps.UserService.ToggleSubstance(ctx, user, sub)
	if err != nil {
		return h.sendPlain(chatID, "Could not update tracked substances. Please try again.")
	}
	msg := tgbotapi.NewMessage(chatID, "Which substances should I track?")
	msg.ReplyMarkup = keyboards.SubstancesMenu(enabled)
	_, err = h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleProfileChoice(ctx context.Context, chatID int64, user *database.User, field, value string) error {
	var err error
	switch field {
	case "sex":
		err = h.deps.ProfileService.SetSex(ctx, user.ID, value)
	case "smoking":
		err = h.deps.ProfileService.SetSmokingStatus(ctx, user.ID, value)
	}
	if err != nil {
		return h.sendPlain(chatID, "Could not save the profile. Please try again.")
	}
	msg := tgbotapi.NewMessage(chatID, "✅ Saved.")
	msg.ReplyMarkup = keyboards.ProfileMenu()
	_, err = h.api.Send(msg)
	return err
}

// prompt sets a conversation state and asks for the next input
func (h *CallbackHandler) prompt(chatID int64, user *database.User, st, text, cancelTarget string) error {
	h.stateManager.SetUserState(user.TelegramID, st)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", cancelTarget),
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown action")
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) sendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMain()
	if _, err := h.api.Send(msg); err != nil {
		msg.ParseMode = ""
		_, err = h.api.Send(msg)
		return err
	}
	return nil
}

func (h *CallbackHandler) sendPlain(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}
