package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"presider/internal/core/model"
)

// Window handles the timer settings UI.
type Window struct {
	window      fyne.Window
	onSave      func(model.SettingsInput)
	onReset     func()
	speechDur   *widget.Entry
	speechCues  [model.MaxSpeechCues]*widget.Entry
	questionDur *widget.Entry
	questionCue *widget.Entry
}

// New creates a timer settings window.
func New(app fyne.App, settings model.TimerSettings, onSave func(model.SettingsInput), onReset func()) *Window {
	window := app.NewWindow("Timer Settings")

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		onReset:     onReset,
		speechDur:   widget.NewEntry(),
		questionDur: widget.NewEntry(),
		questionCue: widget.NewEntry(),
	}
	for index := range prefs.speechCues {
		prefs.speechCues[index] = widget.NewEntry()
		prefs.speechCues[index].SetPlaceHolder("off")
	}
	prefs.questionCue.SetPlaceHolder("off")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Speech", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Duration"), prefs.speechDur, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Single tap at"), prefs.speechCues[0], widget.NewLabel("sec elapsed")),
		container.NewHBox(widget.NewLabel("Double tap at"), prefs.speechCues[1], widget.NewLabel("sec elapsed")),
		container.NewHBox(widget.NewLabel("Final tap at"), prefs.speechCues[2], widget.NewLabel("sec elapsed")),
		widget.NewLabelWithStyle("Questioning", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Time per questioner"), prefs.questionDur, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Tap at"), prefs.questionCue, widget.NewLabel("sec elapsed")),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	defaultsButton := widget.NewButton("Reset to defaults", prefs.handleReset)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, defaultsButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 380))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the settings window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces the form values.
func (prefs *Window) UpdateSettings(settings model.TimerSettings) {
	input := model.InputFromSettings(settings)
	prefs.speechDur.SetText(input.SpeechDuration)
	for index, entry := range prefs.speechCues {
		entry.SetText(input.SpeechCues[index])
	}
	prefs.questionDur.SetText(input.QuestionDuration)
	prefs.questionCue.SetText(input.QuestionCue)
}

// Input returns the raw form values.
func (prefs *Window) Input() model.SettingsInput {
	input := model.SettingsInput{
		SpeechDuration:   prefs.speechDur.Text,
		QuestionDuration: prefs.questionDur.Text,
		QuestionCue:      prefs.questionCue.Text,
	}
	for index, entry := range prefs.speechCues {
		input.SpeechCues[index] = entry.Text
	}
	return input
}

func (prefs *Window) handleSave() {
	if prefs.onSave != nil {
		prefs.onSave(prefs.Input())
	}
	prefs.window.Hide()
}

func (prefs *Window) handleReset() {
	if prefs.onReset != nil {
		prefs.onReset()
	}
}
