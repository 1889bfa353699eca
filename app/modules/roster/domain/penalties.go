package rosterdomain

// PenaltyTag identifies a rule violation.
type PenaltyTag string

const (
	PenaltyTransfer                 PenaltyTag = "Transfer violation"
	PenaltyInternalTransfer         PenaltyTag = "Internal transfer violation"
	PenaltyActivity                 PenaltyTag = "Activity violation"
	PenaltySameClubInternalTransfer PenaltyTag = "Same-club internal transfer violation"
	PenaltyInternalTransferCount    PenaltyTag = "Total internal transfer count violation"
	PenaltySquadPlanning            PenaltyTag = "Squad planning violation"
)

// PenaltyRule pairs a tag with its score delta.
type PenaltyRule struct {
	Tag   PenaltyTag `json:"tag"`
	Delta int        `json:"delta"`
}

// penaltyTable is ordered the way the entry form lists the options.
var penaltyTable = []PenaltyRule{
	{Tag: PenaltyTransfer, Delta: -3},
	{Tag: PenaltyInternalTransfer, Delta: -5},
	{Tag: PenaltyActivity, Delta: -1},
	{Tag: PenaltySameClubInternalTransfer, Delta: -5},
	{Tag: PenaltyInternalTransferCount, Delta: -5},
	{Tag: PenaltySquadPlanning, Delta: -6},
}

var penaltyIndex = func() map[PenaltyTag]int {
	m := make(map[PenaltyTag]int, len(penaltyTable))
	for _, r := range penaltyTable {
		m[r.Tag] = r.Delta
	}
	return m
}()

// PenaltyTable returns a copy of the penalty vocabulary in display order.
func PenaltyTable() []PenaltyRule {
	out := make([]PenaltyRule, len(penaltyTable))
	copy(out, penaltyTable)
	return out
}

// PenaltyFor returns the delta for a tag. Unknown tags yield 0, false.
func PenaltyFor(tag PenaltyTag) (int, bool) {
	d, ok := penaltyIndex[tag]
	return d, ok
}

// PenaltyTotal sums the deltas of all tags; unknown tags count as zero.
func PenaltyTotal(tags []PenaltyTag) int {
	total := 0
	for _, t := range tags {
		d, _ := PenaltyFor(t)
		total += d
	}
	return total
}

// UnknownPenalties returns the tags that are not in the penalty table.
func UnknownPenalties(tags []PenaltyTag) []PenaltyTag {
	var unknown []PenaltyTag
	for _, t := range tags {
		if _, ok := PenaltyFor(t); !ok {
			unknown = append(unknown, t)
		}
	}
	return unknown
}
