package poker

import (
	"sort"

	"github.com/frodon-community/peergames/internal/model"
)

// Hand category ranks. Scores built from these are comparable across
// categories because the kicker term tops out near 1.5e9, well under the
// 1e11 category step.
const (
	rankHighCard      = 0
	rankPair          = 1
	rankTwoPair       = 2
	rankThreeOfAKind  = 3
	rankStraight      = 4
	rankFlush         = 5
	rankFullHouse     = 6
	rankFourOfAKind   = 7
	rankStraightFlush = 8
	rankRoyalFlush    = 9
)

// HandEval is a scored five-card hand. Score orders hands totally:
// category rank times 1e11 plus base-100 positional kickers.
type HandEval struct {
	Score int64
	Name  string
}

// EvalBest scores the best five-card hand from 2 to 7 cards. With more
// than five cards every five-card subset is evaluated.
func EvalBest(cards []model.Card) HandEval {
	if len(cards) < 2 {
		return HandEval{Score: 0, Name: "—"}
	}
	if len(cards) <= 5 {
		return eval5(cards)
	}

	// Drop every pair of indices to enumerate the five-card subsets
	var best HandEval
	first := true
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			subset := make([]model.Card, 0, len(cards)-2)
			for k, c := range cards {
				if k != i && k != j {
					subset = append(subset, c)
				}
			}
			ev := eval5(subset)
			if first || ev.Score > best.Score {
				best = ev
				first = false
			}
		}
	}
	return best
}

// eval5 scores up to five cards. Straights and flushes need all five;
// pair-based categories work on partial hands, which the pre-flop
// hand-strength preview relies on.
func eval5(cards []model.Card) HandEval {
	ns := make([]int, len(cards))
	for i, c := range cards {
		ns[i] = c.Rank()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ns)))

	flush := len(cards) == 5
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straight, sHigh := false, 0
	if len(ns) == 5 {
		if ns[0]-ns[4] == 4 && distinct(ns) {
			straight, sHigh = true, ns[0]
		}
		// Wheel: A-5-4-3-2 plays as a five-high straight
		if ns[0] == 14 && ns[1] == 5 && ns[2] == 4 && ns[3] == 3 && ns[4] == 2 {
			straight, sHigh = true, 5
		}
	}

	freq := countRanks(ns)

	var rank int
	var name string
	var tb []int
	switch {
	case flush && straight:
		if sHigh == 14 {
			rank, name = rankRoyalFlush, "Royal Flush"
		} else {
			rank, name = rankStraightFlush, "Straight Flush"
		}
		tb = []int{sHigh}
	case freq[0].count == 4:
		rank, name = rankFourOfAKind, "Four of a Kind"
		tb = []int{freq[0].rank, kickerAt(freq, 1)}
	case freq[0].count == 3 && len(freq) > 1 && freq[1].count == 2:
		rank, name = rankFullHouse, "Full House"
		tb = []int{freq[0].rank, freq[1].rank}
	case flush:
		rank, name = rankFlush, "Flush"
		tb = ns
	case straight:
		rank, name = rankStraight, "Straight"
		tb = []int{sHigh}
	case freq[0].count == 3:
		rank, name = rankThreeOfAKind, "Three of a Kind"
		tb = append([]int{freq[0].rank}, kickers(freq, 1)...)
	case freq[0].count == 2 && len(freq) > 1 && freq[1].count == 2:
		rank, name = rankTwoPair, "Two Pair"
		tb = []int{freq[0].rank, freq[1].rank, kickerAt(freq, 2)}
	case freq[0].count == 2:
		rank, name = rankPair, "Pair"
		tb = append([]int{freq[0].rank}, kickers(freq, 1)...)
	default:
		rank, name = rankHighCard, "High Card"
		tb = ns
	}

	score := int64(rank) * 1e11
	weight := int64(100 * 100 * 100 * 100)
	for _, n := range tb {
		score += int64(n) * weight
		weight /= 100
	}
	return HandEval{Score: score, Name: name}
}

type rankCount struct {
	rank  int
	count int
}

// countRanks groups ranks by multiplicity, most frequent first, ties
// broken by higher rank
func countRanks(ns []int) []rankCount {
	cnt := make(map[int]int)
	for _, n := range ns {
		cnt[n]++
	}
	freq := make([]rankCount, 0, len(cnt))
	for n, c := range cnt {
		freq = append(freq, rankCount{rank: n, count: c})
	}
	sort.Slice(freq, func(i, j int) bool {
		if freq[i].count != freq[j].count {
			return freq[i].count > freq[j].count
		}
		return freq[i].rank > freq[j].rank
	})
	return freq
}

func kickerAt(freq []rankCount, i int) int {
	if i < len(freq) {
		return freq[i].rank
	}
	return 0
}

func kickers(freq []rankCount, from int) []int {
	out := make([]int, 0, len(freq)-from)
	for _, f := range freq[from:] {
		out = append(out, f.rank)
	}
	return out
}

func distinct(ns []int) bool {
	seen := make(map[int]bool, len(ns))
	for _, n := range ns {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
