package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/dosewise/dosewise/internal/bot/keyboards"
	"github.com/dosewise/dosewise/internal/bot/menus"
	"github.com/dosewise/dosewise/internal/bot/state"
	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	logger.Infof("Handling command %s from user %d", message.Command(), user.ID)

	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, message.Chat.ID)
	case "dose":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendLogMenu(h.api, message.Chat.ID, user)
	case "status":
		report, err := h.deps.RecommendSvc.Status(ctx, user, time.Now())
		if err != nil {
			return h.sendError(message.Chat.ID, "Could not build your status right now. Please try again.")
		}
		return h.sendMarkdown(message.Chat.ID, formatStatus(report))
	case "next":
		windows, err := h.deps.RecommendSvc.NextDoseWindows(ctx, user, time.Now())
		if err != nil {
			return h.sendError(message.Chat.ID, "Could not compute dose windows right now. Please try again.")
		}
		cutoffs, err := h.deps.RecommendSvc.Cutoffs(ctx, user, time.Now())
		if err != nil {
			return h.sendError(message.Chat.ID, "Could not compute cutoffs right now. Please try again.")
		}
		return h.sendMarkdown(message.Chat.ID, formatWindows(windows, cutoffs))
	case "sleep":
		readiness, err := h.deps.RecommendSvc.SleepReadiness(ctx, user, time.Now())
		if err != nil {
			return h.sendError(message.Chat.ID, "Could not run the sleep check right now. Please try again.")
		}
		return h.sendMarkdown(message.Chat.ID, formatSleepReadiness(readiness))
	case "undo":
		if err := h.deps.DoseService.UndoLast(ctx, user.ID); err != nil {
			return h.sendError(message.Chat.ID, "Nothing to undo.")
		}
		msg := tgbotapi.NewMessage(message.Chat.ID, "↩️ Last dose removed.")
		msg.ReplyMarkup = keyboards.BackToMain()
		_, err := h.api.Send(msg)
		return err
	case "help":
		return h.handleHelp(message.Chat.ID)
	default:
		return h.handleUnknownCommand(message.Chat.ID)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Available commands:
/start - Show the main menu
/dose - Log a dose
/status - What is active in your system right now
/next - When your next dose makes sense
/sleep - When you will be clear enough to sleep
/undo - Remove the last logged dose
/help - Show this message

Logging doses:
1. Tap "☕ Log a dose" and pick a substance, or
2. Describe it in words ("double espresso 20 min ago") and the AI parses it

Amounts are optional. Leaving one out uses a sensible default for the substance.

This bot is general reference information, not medical advice.`

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /help to see what I can do.")
	_, err := h.api.Send(msg)
	return err
}

func (h *CommandHandler) sendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMain()
	if _, err := h.api.Send(msg); err != nil {
		// Markdown can fail on user-supplied fragments; retry as plain text
		msg.ParseMode = ""
		_, err = h.api.Send(msg)
		return err
	}
	return nil
}

func (h *CommandHandler) sendError(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}
