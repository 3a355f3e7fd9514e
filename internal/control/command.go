// Package control defines the commands the view issues against the timer and
// rotation tracker. The Console executes them one at a time and persists the
// resulting state after every successful transition.
package control

import (
	"presider/internal/core/model"
	"presider/internal/core/rotation"
	"presider/internal/core/timekeeper"
)

// CommandType enumerates supported operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdPause
	CmdReset
	CmdSetMode
	CmdAdvanceQuestioner
	CmdApplySettings
	CmdResetSettings
	CmdApplyPreset
	CmdSetNextSide
	CmdMarkSpeechGiven
	CmdResetBill
	CmdSetChamberType
	CmdSetAuthorshipGiven
	CmdSetNames
)

var commandNames = map[CommandType]string{
	CmdStart:              "start",
	CmdPause:              "pause",
	CmdReset:              "reset",
	CmdSetMode:            "set-mode",
	CmdAdvanceQuestioner:  "advance-questioner",
	CmdApplySettings:      "apply-settings",
	CmdResetSettings:      "reset-settings-to-default",
	CmdApplyPreset:        "apply-preset",
	CmdSetNextSide:        "set-next-side",
	CmdMarkSpeechGiven:    "mark-speech-given",
	CmdResetBill:          "reset-bill",
	CmdSetChamberType:     "set-chamber-type",
	CmdSetAuthorshipGiven: "set-authorship-given",
	CmdSetNames:           "set-names",
}

func (commandType CommandType) String() string {
	if name, ok := commandNames[commandType]; ok {
		return name
	}
	return "unknown"
}

// Command is a single user action. Only the fields relevant to Type are read.
type Command struct {
	Type       CommandType
	Mode       timekeeper.Mode
	Settings   model.SettingsInput
	PresetSec  int
	Side       rotation.Side
	Chamber    rotation.ChamberType
	Authorship bool
	Names      model.Names
}

// Start returns a start command.
func Start() Command { return Command{Type: CmdStart} }

// Pause returns a pause command.
func Pause() Command { return Command{Type: CmdPause} }

// Reset returns a reset command.
func Reset() Command { return Command{Type: CmdReset} }

// SetMode returns a mode switch command.
func SetMode(mode timekeeper.Mode) Command { return Command{Type: CmdSetMode, Mode: mode} }

// AdvanceQuestioner returns an advance-questioner command.
func AdvanceQuestioner() Command { return Command{Type: CmdAdvanceQuestioner} }

// ApplySettings returns a settings update from raw form input.
func ApplySettings(input model.SettingsInput) Command {
	return Command{Type: CmdApplySettings, Settings: input}
}

// ResetSettings returns a command restoring default timer settings.
func ResetSettings() Command { return Command{Type: CmdResetSettings} }

// ApplyPreset returns a speech-duration preset command.
func ApplyPreset(seconds int) Command { return Command{Type: CmdApplyPreset, PresetSec: seconds} }

// SetNextSide returns a command pointing the rotation at side.
func SetNextSide(side rotation.Side) Command { return Command{Type: CmdSetNextSide, Side: side} }

// MarkSpeechGiven returns a mark-speech-given command.
func MarkSpeechGiven() Command { return Command{Type: CmdMarkSpeechGiven} }

// ResetBill returns a reset-bill command.
func ResetBill() Command { return Command{Type: CmdResetBill} }

// SetChamberType returns a chamber type command.
func SetChamberType(chamber rotation.ChamberType) Command {
	return Command{Type: CmdSetChamberType, Chamber: chamber}
}

// SetAuthorshipGiven returns an authorship flag command.
func SetAuthorshipGiven(given bool) Command {
	return Command{Type: CmdSetAuthorshipGiven, Authorship: given}
}

// SetNames returns a display names command.
func SetNames(names model.Names) Command { return Command{Type: CmdSetNames, Names: names} }
