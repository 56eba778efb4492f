package game

import "time"

// Progress tracks score and the difficulty derived from it.
// Level and Interval only change through AddLines.
type Progress struct {
	Score    int
	Level    int
	Lines    int
	Interval time.Duration

	rules Rules
}

// NewProgress returns the starting progress for rules: score 0, level 1.
func NewProgress(rules Rules) Progress {
	return Progress{
		Level:    1,
		Interval: rules.BaseInterval,
		rules:    rules,
	}
}

// AddLines credits the rows cleared by one lock and reports whether the level rose.
func (p *Progress) AddLines(n int) bool {
	if n <= 0 {
		return false
	}
	p.Lines += n
	p.Score += n * p.rules.LineBonus

	level := p.rules.LevelFor(p.Score)
	if level <= p.Level {
		return false
	}
	p.Level = level
	p.Interval = p.rules.IntervalFor(level)
	return true
}
