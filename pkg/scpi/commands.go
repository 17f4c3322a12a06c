package scpi

import (
	"math"
	"strconv"

	"github.com/psu-tools/psu-go/pkg/fault"
)

// SCPI command mnemonics.
const (
	cmdVoltage        = "VOLT"
	cmdCurrent        = "CURR"
	cmdOutputOn       = "OUTP ON"
	cmdOutputOff      = "OUTP OFF"
	cmdMeasureVoltage = "MEAS:VOLT?"
	cmdMeasureCurrent = "MEAS:CURR?"
	cmdRemote         = "SYST:REMOTE"
	cmdLocal          = "SYST:LOCAL"
	cmdIdentify       = "*IDN?"
)

// formatValue renders v in the shortest form that parses back to v.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func setpoint(mnemonic string, v float64) string {
	return mnemonic + " " + formatValue(v)
}

// CheckSetpoint reports a fault.InvalidParameter error for op unless v is a
// finite, non-negative number.
func CheckSetpoint(op string, v float64) error {
	if !validSetpoint(v) {
		return fault.InvalidParameter(op, "%v is not a finite non-negative number", v)
	}
	return nil
}

func validSetpoint(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func outputCommand(on bool) string {
	if on {
		return cmdOutputOn
	}
	return cmdOutputOff
}

func remoteCommand(remote bool) string {
	if remote {
		return cmdRemote
	}
	return cmdLocal
}
