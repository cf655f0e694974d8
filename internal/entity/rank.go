package entity

import "math"

// Rank is one tier in the static progression ladder. A user's rank is always
// derived from cumulative points; it is never stored as independent truth.
type Rank struct {
	Name      string
	MinPoints int
	MaxPoints int
	Factor    int

	next     *Rank
	previous *Rank
}

func (that *Rank) Next() *Rank {
	return that.next
}

func (that *Rank) Previous() *Rank {
	return that.previous
}

// Contains - reports whether points fall inside this rank's bracket.
func (that *Rank) Contains(points int) bool {
	return points >= that.MinPoints && points <= that.MaxPoints
}

var ladder = buildLadder()

func buildLadder() []*Rank {
	ranks := []*Rank{
		{Name: "bronze", MinPoints: 0, MaxPoints: 500, Factor: 3},
		{Name: "silver", MinPoints: 501, MaxPoints: 1500, Factor: 4},
		{Name: "gold", MinPoints: 1501, MaxPoints: 3000, Factor: 5},
		{Name: "platinum", MinPoints: 3001, MaxPoints: 6000, Factor: 6},
		{Name: "diamond", MinPoints: 6001, MaxPoints: math.MaxInt, Factor: 7},
	}

	for i, rank := range ranks {
		if i > 0 {
			rank.previous = ranks[i-1]
		}
		if i < len(ranks)-1 {
			rank.next = ranks[i+1]
		}
	}

	return ranks
}

// RankForPoints - derives the rank whose bracket holds the given cumulative
// points. Pure: identical points always resolve to the identical rank.
func RankForPoints(points int) *Rank {
	if points < 0 {
		points = 0
	}

	return RankFrom(ladder[0], points)
}

// RankFrom - walks next/previous from a starting rank until the bracket
// holding points is found.
func RankFrom(start *Rank, points int) *Rank {
	rank := start
	for !rank.Contains(points) {
		if points > rank.MaxPoints {
			rank = rank.next
		} else {
			rank = rank.previous
		}
	}

	return rank
}
