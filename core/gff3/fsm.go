// core/gff3/fsm.go
package gff3

import "strings"

// State of the parser.
type State int

const (
	StateNone     State = iota // NON: nothing read yet, or after ##end-DNA
	StateHeader                // HED
	StateBody                  // BOD
	StateSequence              // SEQ: inside ##DNA ... ##end-DNA
	StateFasta                 // FAS: after ##FASTA
	StateClosed                // CLO: after ###
	StateError                 // ERR: terminal
	numStates
)

var stateNames = [numStates]string{"NON", "HED", "BOD", "SEQ", "FAS", "CLO", "ERR"}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return "?"
	}
	return stateNames[s]
}

// LineClass is the state-independent category of an input line.
type LineClass int

const (
	LineEmpty LineClass = iota
	LineDNA
	LineEndDNA
	LineDirective
	LineComment
	LineBody
	LineFasta
	LineClose
	LineOther
	numLineClasses
)

var lineClassNames = [numLineClasses]string{"empty", "DNA", "end-DNA", "directive", "comment", "body", "FASTA", "close", "other"}

func (c LineClass) String() string {
	if c < 0 || c >= numLineClasses {
		return "?"
	}
	return lineClassNames[c]
}

// Classify assigns a line its class.
func Classify(line string) LineClass {
	switch {
	case strings.TrimSpace(line) == "":
		return LineEmpty
	case strings.HasPrefix(line, "###"):
		return LineClose
	case strings.HasPrefix(line, "##DNA"):
		return LineDNA
	case strings.HasPrefix(line, "##end-DNA"):
		return LineEndDNA
	case strings.HasPrefix(line, "##FASTA"):
		return LineFasta
	case strings.HasPrefix(line, "##"):
		return LineDirective
	case strings.HasPrefix(line, "#"):
		return LineComment
	}
	return LineBody
}

const (
	non = StateNone
	hed = StateHeader
	bod = StateBody
	seq = StateSequence
	fas = StateFasta
	clo = StateClosed
	ers = StateError
)

// transitions[state][class]. Columns follow the LineClass order.
var transitions = [numStates][numLineClasses]State{
	//          Empty DNA  EndDNA Dir  Comm Body FASTA Close Other
	StateNone:     {non, seq, ers, hed, non, bod, fas, ers, non},
	StateHeader:   {hed, seq, ers, hed, hed, bod, fas, clo, ers},
	StateBody:     {bod, seq, ers, hed, bod, bod, fas, clo, ers},
	StateSequence: {ers, ers, non, seq, ers, ers, ers, ers, ers},
	StateFasta:    {fas, ers, ers, ers, fas, fas, ers, ers, fas},
	StateClosed:   {non, seq, ers, hed, clo, bod, fas, clo, non},
	StateError:    {ers, ers, ers, ers, ers, ers, ers, ers, ers},
}

// Next returns the state reached from s on a line of class c. Empty and
// comment lines never change state.
func Next(s State, c LineClass) State {
	if c == LineEmpty || c == LineComment {
		return s
	}
	return transitions[s][c]
}
