// model/tables.go

package model

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// HiddenStem is one weighted stem hidden inside a branch (§3).
type HiddenStem struct {
	Stem   Stem
	Weight float64
}

// BranchInfo is a branch's fixed element and hidden-stem composition.
type BranchInfo struct {
	Element Element
	Hidden  []HiddenStem
}

// SixCombination is a branch-pair six-combination transforming to Target.
type SixCombination struct {
	A, B   Branch
	Target Element
}

// ThreeHarmony is a branch-triple three-harmony transforming to Target.
type ThreeHarmony struct {
	Branches [3]Branch
	Target   Element
}

// StemCombination is a stem-pair five-combination transforming to Target.
type StemCombination struct {
	A, B   Stem
	Target Element
}

// BranchPair is an unordered pair of branches (clash/harm tables).
type BranchPair struct {
	A, B Branch
}

// LifeStage is a named life-cycle stage and its energy coefficient (§3).
type LifeStage struct {
	Label       string
	Coefficient float64
}

// Tables is every static domain relation, loaded once on first use by
// DefaultTables (§6: "static tables are loaded once from a configuration
// document").
type Tables struct {
	Branches         [branchCount]BranchInfo
	SixCombos        []SixCombination
	ThreeHarmonies   []ThreeHarmony
	StemCombos       []StemCombination
	Clashes          []BranchPair
	ThreePunishments [][]Branch
	SelfPunishments  map[Branch]bool
	Harms            []BranchPair
	LifeStage        [stemCount][branchCount]LifeStage

	sixComboLookup    map[[2]Branch]Element
	stemComboLookup   map[[2]Stem]Element
	clashLookup       map[Branch]Branch
	harmLookup        map[Branch]Branch
	punishmentMembers map[Branch][]Branch
}

// --- raw YAML schema -------------------------------------------------

type rawHidden struct {
	Stem   int     `yaml:"stem"`
	Weight float64 `yaml:"weight"`
}

type rawBranch struct {
	Branch  int         `yaml:"branch"`
	Element string      `yaml:"element"`
	Hidden  []rawHidden `yaml:"hidden"`
}

type rawSixCombo struct {
	A      int    `yaml:"a"`
	B      int    `yaml:"b"`
	Target string `yaml:"target"`
}

type rawThreeHarmony struct {
	Branches [3]int `yaml:"branches"`
	Target   string `yaml:"target"`
}

type rawStemCombo struct {
	A      int    `yaml:"a"`
	B      int    `yaml:"b"`
	Target string `yaml:"target"`
}

type rawPair struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

type rawPunishmentGroup struct {
	Branches []int `yaml:"branches"`
}

type rawLifeStageStep struct {
	Label       string  `yaml:"label"`
	Coefficient float64 `yaml:"coefficient"`
}

type rawTables struct {
	Branches          []rawBranch          `yaml:"branches"`
	SixCombinations   []rawSixCombo        `yaml:"six_combinations"`
	ThreeHarmonies    []rawThreeHarmony    `yaml:"three_harmonies"`
	StemCombinations  []rawStemCombo       `yaml:"stem_combinations"`
	Clashes           []rawPair            `yaml:"clashes"`
	ThreePunishments  []rawPunishmentGroup `yaml:"three_punishments"`
	SelfPunishments   [][2]int             `yaml:"self_punishments"`
	Harms             []rawPair            `yaml:"harms"`
	LifeStageCycle    []rawLifeStageStep   `yaml:"life_stage_cycle"`
	LifeStageStartMap map[string]int       `yaml:"life_stage_start_branch"`
}

func elementByName(name string) (Element, error) {
	switch name {
	case "Wood":
		return Wood, nil
	case "Fire":
		return Fire, nil
	case "Earth":
		return Earth, nil
	case "Metal":
		return Metal, nil
	case "Water":
		return Water, nil
	default:
		return 0, fmt.Errorf("unknown element name %q", name)
	}
}

var (
	tablesOnce sync.Once
	tables     *Tables
	tablesErr  error
)

// LoadTables decodes the embedded YAML document into a Tables value.
// It is safe to call repeatedly; each call decodes afresh and returns a
// new value. DefaultTables caches the result of its first call.
func LoadTables() (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(tablesYAML, &raw); err != nil {
		return nil, NewModelError(ErrCodeMissingTable, "failed to parse embedded domain tables", err)
	}

	t := &Tables{
		SelfPunishments:   make(map[Branch]bool),
		sixComboLookup:    make(map[[2]Branch]Element),
		stemComboLookup:   make(map[[2]Stem]Element),
		clashLookup:       make(map[Branch]Branch),
		harmLookup:        make(map[Branch]Branch),
		punishmentMembers: make(map[Branch][]Branch),
	}

	if len(raw.Branches) != int(branchCount) {
		return nil, NewModelError(ErrCodeMissingTable,
			fmt.Sprintf("branches table must have %d entries, got %d", branchCount, len(raw.Branches)), ErrMissingTable)
	}
	for _, rb := range raw.Branches {
		el, err := elementByName(rb.Element)
		if err != nil {
			return nil, NewModelError(ErrCodeMissingTable, "branch table entry has invalid element", err)
		}
		hidden := make([]HiddenStem, 0, len(rb.Hidden))
		var weightSum float64
		for _, h := range rb.Hidden {
			hidden = append(hidden, HiddenStem{Stem: Stem(h.Stem), Weight: h.Weight})
			weightSum += h.Weight
		}
		if weightSum < 0.999 || weightSum > 1.001 {
			return nil, NewModelError(ErrCodeMissingTable,
				fmt.Sprintf("branch %d hidden-stem weights must sum to 1.0, got %v", rb.Branch, weightSum), ErrMissingTable)
		}
		t.Branches[rb.Branch] = BranchInfo{Element: el, Hidden: hidden}
	}

	for _, sc := range raw.SixCombinations {
		target, err := elementByName(sc.Target)
		if err != nil {
			return nil, NewModelError(ErrCodeMissingTable, "six_combinations entry has invalid target", err)
		}
		a, b := Branch(sc.A), Branch(sc.B)
		t.SixCombos = append(t.SixCombos, SixCombination{A: a, B: b, Target: target})
		t.sixComboLookup[[2]Branch{a, b}] = target
		t.sixComboLookup[[2]Branch{b, a}] = target
	}

	for _, th := range raw.ThreeHarmonies {
		target, err := elementByName(th.Target)
		if err != nil {
			return nil, NewModelError(ErrCodeMissingTable, "three_harmonies entry has invalid target", err)
		}
		t.ThreeHarmonies = append(t.ThreeHarmonies, ThreeHarmony{
			Branches: [3]Branch{Branch(th.Branches[0]), Branch(th.Branches[1]), Branch(th.Branches[2])},
			Target:   target,
		})
	}

	for _, sc := range raw.StemCombinations {
		target, err := elementByName(sc.Target)
		if err != nil {
			return nil, NewModelError(ErrCodeMissingTable, "stem_combinations entry has invalid target", err)
		}
		a, b := Stem(sc.A), Stem(sc.B)
		t.StemCombos = append(t.StemCombos, StemCombination{A: a, B: b, Target: target})
		t.stemComboLookup[[2]Stem{a, b}] = target
		t.stemComboLookup[[2]Stem{b, a}] = target
	}

	for _, c := range raw.Clashes {
		a, b := Branch(c.A), Branch(c.B)
		t.Clashes = append(t.Clashes, BranchPair{A: a, B: b})
		t.clashLookup[a] = b
		t.clashLookup[b] = a
	}

	for _, g := range raw.ThreePunishments {
		members := make([]Branch, len(g.Branches))
		for i, b := range g.Branches {
			members[i] = Branch(b)
		}
		t.ThreePunishments = append(t.ThreePunishments, members)
		for _, b := range members {
			t.punishmentMembers[b] = members
		}
	}

	for _, pair := range raw.SelfPunishments {
		t.SelfPunishments[Branch(pair[0])] = true
	}

	for _, h := range raw.Harms {
		a, b := Branch(h.A), Branch(h.B)
		t.Harms = append(t.Harms, BranchPair{A: a, B: b})
		t.harmLookup[a] = b
		t.harmLookup[b] = a
	}

	if err := t.buildLifeStageTable(raw); err != nil {
		return nil, err
	}

	return t, nil
}

// buildLifeStageTable generates the 10x12 life-stage table from the
// compact cycle + per-element start-branch form (see tables.yaml's
// comment): the yang stem of each element pair walks the 12-stage
// cycle forward from its start branch, the yin stem walks it backward.
func (t *Tables) buildLifeStageTable(raw rawTables) error {
	if len(raw.LifeStageCycle) != int(branchCount) {
		return NewModelError(ErrCodeMissingTable,
			fmt.Sprintf("life_stage_cycle must have %d entries, got %d", branchCount, len(raw.LifeStageCycle)), ErrMissingTable)
	}
	cycle := make([]LifeStage, branchCount)
	for i, step := range raw.LifeStageCycle {
		cycle[i] = LifeStage{Label: step.Label, Coefficient: step.Coefficient}
	}

	starts := make(map[Element]Branch, elementCount)
	for name, b := range raw.LifeStageStartMap {
		el, err := elementByName(name)
		if err != nil {
			return NewModelError(ErrCodeMissingTable, "life_stage_start_branch has invalid element key", err)
		}
		starts[el] = Branch(b)
	}

	for s := S0; s < stemCount; s++ {
		start, ok := starts[s.Element()]
		if !ok {
			return NewModelError(ErrCodeMissingTable,
				fmt.Sprintf("life_stage_start_branch missing entry for element %v", s.Element()), ErrMissingTable)
		}
		for b := B0; b < branchCount; b++ {
			offset := int(b) - int(start)
			if s.Polarity() == Yin {
				offset = -offset
			}
			offset = ((offset % int(branchCount)) + int(branchCount)) % int(branchCount)
			t.LifeStage[s][b] = cycle[offset]
		}
	}
	return nil
}

// DefaultTables returns the package-wide cached Tables, loading them on
// first use and panicking (at init-adjacent, construction time, never
// mid-analysis) if the embedded document is malformed — §7's
// MissingTable is fatal at load time, not a recoverable per-call error.
func DefaultTables() *Tables {
	tablesOnce.Do(func() {
		tables, tablesErr = LoadTables()
		if tablesErr != nil {
			panic(tablesErr)
		}
	})
	return tables
}

// HiddenStems returns b's hidden-stem composition.
func (t *Tables) HiddenStems(b Branch) []HiddenStem {
	return t.Branches[b].Hidden
}

// BranchElement returns b's primary element.
func (t *Tables) BranchElement(b Branch) Element {
	return t.Branches[b].Element
}

// SixCombinationTarget reports the transformed element if a and b form
// a six-combination.
func (t *Tables) SixCombinationTarget(a, b Branch) (Element, bool) {
	el, ok := t.sixComboLookup[[2]Branch{a, b}]
	return el, ok
}

// StemCombinationTarget reports the transformed element if a and b form
// a stem five-combination.
func (t *Tables) StemCombinationTarget(a, b Stem) (Element, bool) {
	el, ok := t.stemComboLookup[[2]Stem{a, b}]
	return el, ok
}

// IsClash reports whether a and b are an opposing branch-clash pair.
func (t *Tables) IsClash(a, b Branch) bool {
	opp, ok := t.clashLookup[a]
	return ok && opp == b
}

// ClashPartner returns b's clash opponent, if any.
func (t *Tables) ClashPartner(b Branch) (Branch, bool) {
	opp, ok := t.clashLookup[b]
	return opp, ok
}

// IsHarm reports whether a and b are a harm pair.
func (t *Tables) IsHarm(a, b Branch) bool {
	opp, ok := t.harmLookup[a]
	return ok && opp == b
}

// IsSelfPunishment reports whether b is in the self-punishment set
// (triggered when the same branch appears at two or more positions).
func (t *Tables) IsSelfPunishment(b Branch) bool {
	return t.SelfPunishments[b]
}

// PunishmentGroup returns the three-punishment group b belongs to, if any.
func (t *Tables) PunishmentGroup(b Branch) ([]Branch, bool) {
	g, ok := t.punishmentMembers[b]
	return g, ok
}

// ThreeHarmonyMatch is one three-harmony triple found by
// MatchThreeHarmonies, with the branches present and its completeness.
type ThreeHarmonyMatch struct {
	Harmony      ThreeHarmony
	Present      []Branch
	Completeness float64
}

// MatchThreeHarmonies checks which three-harmony triples are fully or
// partially (2-of-3) present in the given set of active branches,
// returning each match with its completeness fraction (1.0 full, 2/3
// partial) and target element.
func (t *Tables) MatchThreeHarmonies(active map[Branch]bool) []ThreeHarmonyMatch {
	var matches []ThreeHarmonyMatch
	for _, h := range t.ThreeHarmonies {
		present := make([]Branch, 0, 3)
		for _, b := range h.Branches {
			if active[b] {
				present = append(present, b)
			}
		}
		switch len(present) {
		case 3:
			matches = append(matches, ThreeHarmonyMatch{Harmony: h, Present: present, Completeness: 1.0})
		case 2:
			matches = append(matches, ThreeHarmonyMatch{Harmony: h, Present: present, Completeness: 2.0 / 3.0})
		}
	}
	return matches
}

// LifeStageOf returns the life-stage of stem s standing on branch b.
func (t *Tables) LifeStageOf(s Stem, b Branch) LifeStage {
	return t.LifeStage[s][b]
}
