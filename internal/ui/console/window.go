package console

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"presider/internal/control"
	"presider/internal/core/model"
	"presider/internal/core/rotation"
	"presider/internal/core/timekeeper"
	"presider/internal/ui/animation"
)

// Dispatcher executes commands and renders state.
type Dispatcher interface {
	Dispatch(ctx context.Context, command control.Command) error
	View() control.View
}

// Config defines console options.
type Config struct {
	PresetsSec []int
	OnSettings func()
}

// DefaultPresets are the speech-duration shortcuts.
var DefaultPresets = []int{120, 180, 300}

var (
	displayColor = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	flashColor   = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	cueColor     = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	panelColor   = color.NRGBA{R: 24, G: 24, B: 28, A: 255}
)

var chamberLabels = map[rotation.ChamberType]string{
	rotation.ChamberHouse:  "House",
	rotation.ChamberSenate: "Senate",
	rotation.ChamberOther:  "Other",
}

var labelsToChamber = map[string]rotation.ChamberType{
	"House":  rotation.ChamberHouse,
	"Senate": rotation.ChamberSenate,
	"Other":  rotation.ChamberOther,
}

// Window is the main console: timer on top, speech rotation below.
type Window struct {
	window     fyne.Window
	dispatcher Dispatcher
	config     Config
	flash      *animation.Engine
	syncing    bool

	display        *canvas.Text
	cue            *canvas.Text
	questionInfo   *widget.Label
	speechButton   *widget.Button
	questionButton *widget.Button
	startButton    *widget.Button
	pauseButton    *widget.Button
	nextQuestioner *widget.Button

	chamberSelect   *widget.Select
	authorshipCheck *widget.Check
	nextSpeech      *widget.Label
	affCount        *widget.Label
	negCount        *widget.Label
	line            *widget.Label
	chamberName     *widget.Entry
	tournamentName  *widget.Entry
}

// New creates the console window.
func New(app fyne.App, dispatcher Dispatcher, config Config) *Window {
	if len(config.PresetsSec) == 0 {
		config.PresetsSec = DefaultPresets
	}

	console := &Window{
		window:     app.NewWindow("Presider"),
		dispatcher: dispatcher,
		config:     config,
	}
	console.flash = animation.New(animation.DefaultConfig(), console.setHighlight)

	view := dispatcher.View()
	console.window.SetContent(container.NewVBox(
		console.buildNames(view.Names),
		console.buildTimer(),
		widget.NewSeparator(),
		console.buildTracker(),
	))
	console.window.Resize(fyne.NewSize(520, 720))
	console.Render(view)
	return console
}

// Window returns the underlying fyne window.
func (console *Window) Window() fyne.Window {
	return console.window
}

// Show displays the console.
func (console *Window) Show() {
	console.window.Show()
	console.window.RequestFocus()
}

// Flash briefly highlights the time display.
func (console *Window) Flash() {
	console.flash.Flash(context.Background())
}

// Close stops background animations.
func (console *Window) Close() {
	console.flash.Stop()
}

// Render copies view into the widgets. It must run on the fyne thread.
func (console *Window) Render(view control.View) {
	console.syncing = true
	defer func() {
		console.syncing = false
	}()

	console.display.Text = view.Remaining
	console.display.Refresh()
	console.cue.Text = view.Cue
	console.cue.Refresh()
	console.questionInfo.SetText(fmt.Sprintf("Question time %s    Questioners used: %d", view.QuestionChunk, view.QuestionsUsed))

	setActive(console.speechButton, view.Mode == timekeeper.ModeSpeech)
	setActive(console.questionButton, view.Mode == timekeeper.ModeQuestion)
	setEnabled(console.startButton, !view.Running)
	setEnabled(console.pauseButton, view.Running)
	setEnabled(console.nextQuestioner, view.Mode == timekeeper.ModeQuestion)

	if label := chamberLabels[view.Chamber]; console.chamberSelect.Selected != label {
		console.chamberSelect.SetSelected(label)
	}
	if console.authorshipCheck.Checked != view.AuthorshipGiven {
		console.authorshipCheck.SetChecked(view.AuthorshipGiven)
	}
	console.nextSpeech.SetText(view.NextSpeech)
	console.affCount.SetText(strconv.Itoa(view.AffCount))
	console.negCount.SetText(strconv.Itoa(view.NegCount))
	console.line.SetText(view.Line)
}

func (console *Window) buildNames(names model.Names) fyne.CanvasObject {
	console.chamberName = widget.NewEntry()
	console.chamberName.SetPlaceHolder("Chamber")
	console.chamberName.SetText(names.Chamber)
	console.tournamentName = widget.NewEntry()
	console.tournamentName.SetPlaceHolder("Tournament")
	console.tournamentName.SetText(names.Tournament)

	onChanged := func(string) {
		console.Dispatch(control.SetNames(model.Names{
			Chamber:    console.chamberName.Text,
			Tournament: console.tournamentName.Text,
		}))
	}
	console.chamberName.OnChanged = onChanged
	console.tournamentName.OnChanged = onChanged

	return container.NewGridWithColumns(2, console.chamberName, console.tournamentName)
}

func (console *Window) buildTimer() fyne.CanvasObject {
	console.display = canvas.NewText("0:00", displayColor)
	console.display.Alignment = fyne.TextAlignCenter
	console.display.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	console.display.TextSize = 72

	console.cue = canvas.NewText("", cueColor)
	console.cue.Alignment = fyne.TextAlignCenter
	console.cue.TextStyle = fyne.TextStyle{Bold: true}
	console.cue.TextSize = 22

	background := canvas.NewRectangle(panelColor)
	panel := container.NewStack(background, container.New(&timerPanelLayout{}, console.display, console.cue))

	console.speechButton = widget.NewButton("Speech", func() {
		console.Dispatch(control.SetMode(timekeeper.ModeSpeech))
	})
	console.questionButton = widget.NewButton("Questioning", func() {
		console.Dispatch(control.SetMode(timekeeper.ModeQuestion))
	})

	console.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		console.Dispatch(control.Start())
	})
	console.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), func() {
		console.Dispatch(control.Pause())
	})
	resetButton := widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		console.Dispatch(control.Reset())
	})
	console.nextQuestioner = widget.NewButtonWithIcon("Next questioner", theme.MediaSkipNextIcon(), func() {
		console.Dispatch(control.AdvanceQuestioner())
	})

	presets := container.NewHBox(widget.NewLabel("Presets"))
	for _, seconds := range console.config.PresetsSec {
		presets.Add(widget.NewButton(timekeeper.FormatRemaining(time.Duration(seconds) * time.Second), func() {
			console.Dispatch(control.ApplyPreset(seconds))
		}))
	}
	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if console.config.OnSettings != nil {
			console.config.OnSettings()
		}
	})
	presets.Add(settingsButton)

	console.questionInfo = widget.NewLabel("")

	return container.NewVBox(
		container.NewGridWithColumns(2, console.speechButton, console.questionButton),
		panel,
		container.NewGridWithColumns(4, console.startButton, console.pauseButton, resetButton, console.nextQuestioner),
		console.questionInfo,
		presets,
	)
}

func (console *Window) buildTracker() fyne.CanvasObject {
	options := make([]string, 0, len(rotation.ChamberTypes))
	for _, chamber := range rotation.ChamberTypes {
		options = append(options, chamberLabels[chamber])
	}
	console.chamberSelect = widget.NewSelect(options, func(selected string) {
		if console.syncing {
			return
		}
		if chamber, ok := labelsToChamber[selected]; ok {
			console.Dispatch(control.SetChamberType(chamber))
		}
	})
	console.authorshipCheck = widget.NewCheck("Authorship given", func(checked bool) {
		if console.syncing {
			return
		}
		console.Dispatch(control.SetAuthorshipGiven(checked))
	})

	console.nextSpeech = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	console.affCount = widget.NewLabel("0")
	console.negCount = widget.NewLabel("0")
	console.line = widget.NewLabel("")
	console.line.Wrapping = fyne.TextWrapWord

	nextAff := widget.NewButton("Next: Aff", func() {
		console.Dispatch(control.SetNextSide(rotation.SideAff))
	})
	nextNeg := widget.NewButton("Next: Neg", func() {
		console.Dispatch(control.SetNextSide(rotation.SideNeg))
	})
	markGiven := widget.NewButtonWithIcon("Mark speech given", theme.ConfirmIcon(), func() {
		console.Dispatch(control.MarkSpeechGiven())
	})
	markGiven.Importance = widget.HighImportance
	resetBill := widget.NewButtonWithIcon("New bill", theme.ContentClearIcon(), func() {
		console.Dispatch(control.ResetBill())
	})

	return container.NewVBox(
		container.NewHBox(widget.NewLabel("Chamber"), console.chamberSelect, console.authorshipCheck),
		container.NewHBox(widget.NewLabel("Next speech:"), console.nextSpeech),
		container.NewHBox(widget.NewLabel("Aff"), console.affCount, widget.NewLabel("Neg"), console.negCount),
		container.NewGridWithColumns(2, nextAff, nextNeg),
		container.NewGridWithColumns(2, markGiven, resetBill),
		widget.NewCard("", "Suggested line", console.line),
	)
}

// Dispatch runs a command and re-renders. It must run on the fyne thread.
func (console *Window) Dispatch(command control.Command) {
	if err := console.dispatcher.Dispatch(context.Background(), command); err != nil {
		log.Error().Err(err).Str("command", command.Type.String()).Msg("command failed")
	}
	console.Render(console.dispatcher.View())
}

func (console *Window) setHighlight(enabled bool) {
	fyne.Do(func() {
		if enabled {
			console.display.Color = flashColor
		} else {
			console.display.Color = displayColor
		}
		console.display.Refresh()
	})
}

func setActive(button *widget.Button, active bool) {
	importance := widget.MediumImportance
	if active {
		importance = widget.HighImportance
	}
	if button.Importance != importance {
		button.Importance = importance
		button.Refresh()
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

type timerPanelLayout struct{}

func (layout *timerPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	display := objects[0]
	cue := objects[1]

	pad := size.Height * 0.05
	displaySize := display.MinSize()
	cueSize := cue.MinSize()

	contentHeight := displaySize.Height + cueSize.Height
	top := (size.Height - contentHeight) / 2
	if top < pad {
		top = pad
	}

	display.Move(fyne.NewPos(0, top))
	display.Resize(fyne.NewSize(size.Width, displaySize.Height))
	cue.Move(fyne.NewPos(0, top+displaySize.Height))
	cue.Resize(fyne.NewSize(size.Width, cueSize.Height))
}

func (layout *timerPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	displaySize := objects[0].MinSize()
	cueSize := objects[1].MinSize()
	width := displaySize.Width
	if cueSize.Width > width {
		width = cueSize.Width
	}
	return fyne.NewSize(width+20, displaySize.Height+cueSize.Height+40)
}
