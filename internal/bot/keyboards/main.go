package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/dosewise/dosewise/internal/engine"
)

func label(s engine.Substance) string {
	cfg, err := engine.ConfigFor(s)
	if err != nil {
		return string(s)
	}
	return cfg.Label
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☕ Log a dose", "log_dose"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Status", "status"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏰ Next dose", "next_dose"),
			tgbotapi.NewInlineKeyboardButtonData("😴 Sleep check", "sleep_check"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Plan a peak", "peak_plan"),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", "settings"),
		),
	)
}

// LogMenu creates the dose logging keyboard: one button per enabled
// substance plus the free-text entry path.
func LogMenu(enabled []engine.Substance) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range enabled {
		lbl := label(s)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lbl, "log_"+string(s)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✍️ Describe it in words", "log_freetext"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ Undo last", "undo"),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SettingsMenu creates the settings menu keyboard
func SettingsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎛️ Mode", "set_mode"),
			tgbotapi.NewInlineKeyboardButtonData("🛏️ Bedtime", "set_sleep"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💊 Substances", "substances"),
			tgbotapi.NewInlineKeyboardButtonData("🧬 Health profile", "profile"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}

// ModeMenu creates the recommendation mode keyboard
func ModeMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌿 Health", "mode_health"),
			tgbotapi.NewInlineKeyboardButtonData("🚀 Productivity", "mode_productivity"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", "settings"),
		),
	)
}

// SubstancesMenu creates the substance toggle keyboard, marking which are
// currently tracked.
func SubstancesMenu(enabled []engine.Substance) tgbotapi.InlineKeyboardMarkup {
	on := make(map[engine.Substance]bool, len(enabled))
	for _, s := range enabled {
		on[s] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range engine.AllSubstances() {
		mark := "☐"
		if on[s] {
			mark = "☑"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s", mark, label(s)), "toggle_"+string(s)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Back", "settings"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ProfileMenu creates the health profile editing keyboard
func ProfileMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Weight", "set_weight"),
			tgbotapi.NewInlineKeyboardButtonData("🎂 Birth year", "set_birthyear"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚻 Sex", "set_sex"),
			tgbotapi.NewInlineKeyboardButtonData("🚬 Smoking", "set_smoking"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤧 Allergies", "set_allergies"),
			tgbotapi.NewInlineKeyboardButtonData("💊 Medications", "set_medications"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", "settings"),
		),
	)
}

// SexMenu creates the sex selection keyboard
func SexMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Female", "sex_female"),
			tgbotapi.NewInlineKeyboardButtonData("Male", "sex_male"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", "profile"),
		),
	)
}

// SmokingMenu creates the smoking status keyboard
func SmokingMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Smoker", "smoking_smoker"),
			tgbotapi.NewInlineKeyboardButtonData("Non-smoker", "smoking_non_smoker"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", "profile"),
		),
	)
}

// BackToMain creates a single back-to-main-menu row
func BackToMain() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}
