package wire

import (
	"fmt"
	"strings"
)

// Opcode identifies a command. It occupies the bits of the header byte not
// used by the dialect's header marker.
type Opcode byte

// Commands exchanged between keypads and the main controller.
const (
	OpLightIntensity  Opcode = 0x01
	OpDimmedIntensity Opcode = 0x02
	OpRGBColor        Opcode = 0x03
	OpHSVColor        Opcode = 0x04
	OpLightMode       Opcode = 0x05
	OpRGBMode         Opcode = 0x06
	OpScreen          Opcode = 0x07
	OpProjectorMode   Opcode = 0x08
	OpProjectorLift   Opcode = 0x09
	OpRequestStatus   Opcode = 0x10
	OpReadCommands    Opcode = 0x11 // I2C only
	OpReadStatus      Opcode = 0x12
)

// Commands exchanged between the main controller and the projector board.
// On the wire they appear as 0xA1..0xA5.
const (
	OpProjectorStatus  Opcode = 0x21
	OpProjectorLock    Opcode = 0x22
	OpProjectorUnlock  Opcode = 0x23
	OpProjectorAck     Opcode = 0x24
	OpProjectorSetMode Opcode = 0x25
)

// Commands understood by the legacy light board.
const (
	OpLivingRoom Opcode = 0x01
	OpStaircase  Opcode = 0x02
	OpStair      Opcode = 0x03
	OpAllOff     Opcode = 0x04
	OpStatus     Opcode = 0x05
	OpSense      Opcode = 0x06
)

var opcodeNames = map[Opcode]string{
	OpLightIntensity:   "light-intensity",
	OpDimmedIntensity:  "dimmed-intensity",
	OpRGBColor:         "rgb-color",
	OpHSVColor:         "hsv-color",
	OpLightMode:        "light-mode",
	OpRGBMode:          "rgb-mode",
	OpScreen:           "screen",
	OpProjectorMode:    "projector-mode",
	OpProjectorLift:    "projector-lift",
	OpRequestStatus:    "request-status",
	OpReadCommands:     "read-commands",
	OpReadStatus:       "read-status",
	OpProjectorStatus:  "pop-status",
	OpProjectorLock:    "pop-lock",
	OpProjectorUnlock:  "pop-unlock",
	OpProjectorAck:     "pop-ack",
	OpProjectorSetMode: "pop-mode",
}

// String implements fmt.Stringer.
func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op-0x%02x", byte(o))
}

// RGBMode selects the animation of the LED strip.
type RGBMode byte

// RGB modes.
const (
	RGBOn RGBMode = iota
	RGBCycle
	RGBFire
	RGBDimmed
	RGBSpin
	RGBScan
	RGBJuggle
	RGBBPM
	RGBRainbow
	RGBWater
	numRGBModes
)

var rgbModeNames = []string{
	"on", "cycle", "fire", "dimmed", "spin", "scan", "juggle", "bpm", "rainbow", "water",
}

// IsValid checks the mode is known.
func (m RGBMode) IsValid() bool {
	return m < numRGBModes
}

// String implements fmt.Stringer.
func (m RGBMode) String() string {
	if m.IsValid() {
		return rgbModeNames[m]
	}
	return fmt.Sprintf("rgb-mode-%d", byte(m))
}

// ParseRGBMode parses the name of a RGB mode.
func ParseRGBMode(s string) (RGBMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for n, name := range rgbModeNames {
		if name == s {
			return RGBMode(n), nil
		}
	}
	return 0, fmt.Errorf("unknown RGB mode %q", s)
}

// LiftCommand moves the screen or the projector lift.
type LiftCommand byte

// Lift commands.
const (
	LiftUp LiftCommand = iota
	LiftDown
	LiftStop
)

var liftNames = []string{"up", "down", "stop"}

// String implements fmt.Stringer.
func (c LiftCommand) String() string {
	if int(c) < len(liftNames) {
		return liftNames[c]
	}
	return fmt.Sprintf("lift-%d", byte(c))
}

// ParseLiftCommand parses the name of a lift command.
func ParseLiftCommand(s string) (LiftCommand, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for n, name := range liftNames {
		if name == s {
			return LiftCommand(n), nil
		}
	}
	return 0, fmt.Errorf("unknown lift command %q", s)
}

// ProjectorMode is the power/display mode of the projector.
type ProjectorMode byte

// Projector modes.
const (
	ProjectorOff ProjectorMode = iota
	ProjectorOn
	ProjectorNormal
	Projector3D
	ProjectorVR
)

var projectorModeNames = []string{"off", "on", "normal", "3d", "vr"}

// String implements fmt.Stringer.
func (m ProjectorMode) String() string {
	if int(m) < len(projectorModeNames) {
		return projectorModeNames[m]
	}
	return fmt.Sprintf("projector-%d", byte(m))
}

// ParseProjectorMode parses the name of a projector mode.
func ParseProjectorMode(s string) (ProjectorMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for n, name := range projectorModeNames {
		if name == s {
			return ProjectorMode(n), nil
		}
	}
	return 0, fmt.Errorf("unknown projector mode %q", s)
}

// LightMode is the bit set of enabled light outputs.
type LightMode byte

// Light mode bits.
const (
	LightLamps LightMode = 1 << iota
	LightStrip

	LightOff LightMode = 0
	LightAll           = LightLamps | LightStrip
)

// Lamps reports if the lamps are on.
func (m LightMode) Lamps() bool {
	return m&LightLamps != 0
}

// Strip reports if the LED strip is on.
func (m LightMode) Strip() bool {
	return m&LightStrip != 0
}

// MakeLightMode builds the light mode bits.
func MakeLightMode(lamps, strip bool) (m LightMode) {
	if lamps {
		m |= LightLamps
	}
	if strip {
		m |= LightStrip
	}
	return
}

// String implements fmt.Stringer.
func (m LightMode) String() string {
	switch m & LightAll {
	case LightLamps:
		return "lamps"
	case LightStrip:
		return "strip"
	case LightAll:
		return "all"
	}
	return "off"
}

// ParseLightMode parses off, lamps, strip or all.
func ParseLightMode(s string) (LightMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LightOff, nil
	case "lamps", "lamp":
		return LightLamps, nil
	case "strip", "leds", "led":
		return LightStrip, nil
	case "all", "on", "both":
		return LightAll, nil
	}
	return 0, fmt.Errorf("unknown light mode %q", s)
}
