package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/dosewise/dosewise/internal/bot/keyboards"
	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/services"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🤖 *DoseWise* - stimulant timing assistant

☕ Log caffeine, Adderall, Dexedrine or nicotine and I will:
• Track how much is still active in your system
• Tell you when a next dose makes sense
• Warn you before a dose wrecks your sleep

🤖 *AI models:*
• Gemini 1.5 Flash for free-text dose entries
• Automatic fallback to OpenAI when rate limited

⚠️ *Important:* this is general reference information, not medical advice. Talk to a doctor about prescription stimulants.

Pick an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendSettingsMenu sends the settings menu to a chat
func SendSettingsMenu(api *tgbotapi.BotAPI, chatID int64, user *database.User) error {
	text := "Settings:\n\n" +
		"🎛️ Mode: " + user.Mode + "\n" +
		"🛏️ Bedtime: " + user.SleepBy + "\n" +
		"💊 Tracked: " + user.EnabledSubstances
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.SettingsMenu()
	_, err := api.Send(msg)
	return err
}

// SendLogMenu sends the dose logging menu for the user's tracked substances
func SendLogMenu(api *tgbotapi.BotAPI, chatID int64, user *database.User) error {
	msg := tgbotapi.NewMessage(chatID, "What did you take? Pick a substance or describe the dose in words.")
	msg.ReplyMarkup = keyboards.LogMenu(services.EnabledSubstances(user))
	_, err := api.Send(msg)
	return err
}

// SendProfileMenu sends the health profile menu
func SendProfileMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `Your health profile personalizes the model:
• Weight caps the daily caffeine ceiling
• Smoking, medications, sex and age adjust caffeine clearance
• Allergies exclude substances entirely

Everything is optional. What would you like to set?`
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.ProfileMenu()
	_, err := api.Send(msg)
	return err
}
