package guidance

import (
	"fmt"
	"math"

	"lintang/gridrouter/pkg/datastructure"
)

const (
	U_TURN            = -8
	TURN_SHARP_LEFT   = -3
	TURN_LEFT         = -2
	TURN_SLIGHT_LEFT  = -1
	CONTINUE_ON_LINE  = 0
	TURN_SLIGHT_RIGHT = 1
	TURN_RIGHT        = 2
	TURN_SHARP_RIGHT  = 3
	FINISH            = 4
	START             = 101
)

type Instruction struct {
	Sign        int                          `json:"sign"`
	Point       datastructure.GridCoordinate `json:"point"`
	Heading     string                       `json:"heading,omitempty"`
	Cells       int                          `json:"cells"` // jumlah langkah sampai instruksi berikutnya
	Description string                       `json:"description"`
}

func NewInstruction(sign int, p datastructure.GridCoordinate, heading string) Instruction {
	ins := Instruction{
		Sign:    sign,
		Point:   p,
		Heading: heading,
	}
	ins.Description = ins.GetTurnDescription()
	return ins
}

func (instr *Instruction) GetTurnDescription() string {
	switch instr.Sign {
	case START:
		return fmt.Sprintf("Head %s", instr.Heading)
	case FINISH:
		return "Arrive at destination"
	case CONTINUE_ON_LINE:
		return fmt.Sprintf("Continue %s", instr.Heading)
	default:
		return fmt.Sprintf("%s heading %s", getDirectionDescription(instr.Sign), instr.Heading)
	}
}

func getDirectionDescription(sign int) string {
	switch sign {
	case U_TURN:
		return "Make U-turn"
	case TURN_SHARP_LEFT:
		return "Turn sharp left"
	case TURN_LEFT:
		return "Turn left"
	case TURN_SLIGHT_LEFT:
		return "Turn slight left"
	case TURN_SLIGHT_RIGHT:
		return "Turn slight right"
	case TURN_RIGHT:
		return "Turn right"
	case TURN_SHARP_RIGHT:
		return "Turn sharp right"
	default:
		return ""
	}
}

// azimuth derajat searah jarum jam dari utara. Row bertambah ke selatan.
func azimuth(d datastructure.GridCoordinate) float64 {
	az := math.Atan2(float64(d.Col), float64(-d.Row)) * 180 / math.Pi
	if az < 0 {
		az += 360
	}
	return az
}

func azimuthToCompass(azimuth float64) string {
	if azimuth < 22.5 {
		return "North"
	} else if azimuth < 67.5 {
		return "North East"
	} else if azimuth < 112.5 {
		return "East"
	} else if azimuth < 157.5 {
		return "South East"
	} else if azimuth < 202.5 {
		return "South"
	} else if azimuth < 247.5 {
		return "South West"
	} else if azimuth < 292.5 {
		return "West"
	} else if azimuth < 337.5 {
		return "North West"
	} else {
		return "North"
	}
}

// GetTurnSign sign belokan dari arah prev ke arah next.
func GetTurnSign(prev, next datastructure.GridCoordinate) int {
	delta := azimuth(next) - azimuth(prev)
	for delta > 180 {
		delta -= 360
	}
	for delta <= -180 {
		delta += 360
	}

	absDelta := math.Abs(delta)
	var sign int
	switch {
	case absDelta < 1:
		return CONTINUE_ON_LINE
	case absDelta >= 179:
		return U_TURN
	case absDelta <= 45:
		sign = TURN_SLIGHT_RIGHT
	case absDelta <= 90:
		sign = TURN_RIGHT
	default:
		sign = TURN_SHARP_RIGHT
	}
	if delta < 0 {
		return -sign
	}
	return sign
}
