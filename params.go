package selfplay

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/timpalpant/go-selfplay/quixo"
)

// ErrInvalidParams is returned (wrapped with the offending field) by Params.Validate.
var ErrInvalidParams = errors.New("invalid params")

// PolicyKind selects one of the move-selection policies.
type PolicyKind int

const (
	Random PolicyKind = iota
	Greedy
	Heuristic
)

var policyKindStr = [...]string{
	"RANDOM",
	"GREEDY",
	"HEURISTIC",
}

func (k PolicyKind) String() string {
	if k < Random || k > Heuristic {
		return "PolicyKind(" + strconv.Itoa(int(k)) + ")"
	}

	return policyKindStr[k]
}

// ParsePolicyKind is the inverse of PolicyKind.String. It is case-insensitive.
func ParsePolicyKind(s string) (PolicyKind, error) {
	for i, name := range policyKindStr {
		if strings.EqualFold(s, name) {
			return PolicyKind(i), nil
		}
	}

	return Random, errors.Wrapf(ErrInvalidParams, "unknown policy kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k PolicyKind) MarshalText() ([]byte, error) {
	if k < Random || k > Heuristic {
		return nil, errors.Wrapf(ErrInvalidParams, "unknown policy kind %d", int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PolicyKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicyKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *PolicyKind) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Wrapf(ErrInvalidParams, "line %d: policy kind must be a scalar", node.Line)
	}

	return errors.Wrapf(k.UnmarshalText([]byte(node.Value)), "line %d", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (k PolicyKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Params are the configuration options for self-play episodes and tournaments.
//
// Rewards are scored from the perspective of the player to move at each
// recorded state. WinReward must exceed LossReward, DrawReward must lie
// between them, and the reward span must contain 0 so that discounted
// credits stay within [LossReward, WinReward].
type Params struct {
	Policy   PolicyKind `yaml:"policy"`   // Policy played by PlayerA.
	Opponent PolicyKind `yaml:"opponent"` // Policy played by PlayerB.
	Epsilon  float64    `yaml:"epsilon"`  // Exploration probability for GREEDY and HEURISTIC.
	Discount float64    `yaml:"discount"` // Per-ply discount applied to terminal credit.

	WinReward    float64 `yaml:"win_reward"`
	DrawReward   float64 `yaml:"draw_reward"`
	LossReward   float64 `yaml:"loss_reward"`
	UnknownScore float64 `yaml:"unknown_score"` // Score of a state absent from the lookup table.

	Episodes    int    `yaml:"episodes"`
	MoveCeiling int    `yaml:"move_ceiling"` // Plies after which an episode is a draw.
	Seed        uint64 `yaml:"seed"`         // 0 draws a random seed.
	Workers     int    `yaml:"workers"`      // Parallel tournament workers; <= 1 runs sequentially.
}

// DefaultParams returns the parameters used when nothing else is configured.
func DefaultParams() Params {
	return Params{
		Policy:       Greedy,
		Opponent:     Random,
		Epsilon:      0.1,
		Discount:     0.9,
		WinReward:    1.0,
		DrawReward:   0.5,
		LossReward:   0.0,
		UnknownScore: 0.5,
		Episodes:     1000,
		MoveCeiling:  500,
	}
}

// Validate checks that p describes a runnable configuration.
func (p Params) Validate() error {
	for _, k := range []struct {
		name string
		kind PolicyKind
	}{{"policy", p.Policy}, {"opponent", p.Opponent}} {
		if k.kind < Random || k.kind > Heuristic {
			return errors.Wrapf(ErrInvalidParams, "%s: unknown policy kind %d", k.name, int(k.kind))
		}
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"epsilon", p.Epsilon},
		{"discount", p.Discount},
		{"win_reward", p.WinReward},
		{"draw_reward", p.DrawReward},
		{"loss_reward", p.LossReward},
		{"unknown_score", p.UnknownScore},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Wrapf(ErrInvalidParams, "%s: not finite", f.name)
		}
	}

	switch {
	case p.Epsilon < 0 || p.Epsilon > 1:
		return errors.Wrapf(ErrInvalidParams, "epsilon: %v outside [0, 1]", p.Epsilon)
	case p.Discount <= 0 || p.Discount > 1:
		return errors.Wrapf(ErrInvalidParams, "discount: %v outside (0, 1]", p.Discount)
	case p.WinReward <= p.LossReward:
		return errors.Wrapf(ErrInvalidParams, "win_reward: %v must exceed loss_reward %v",
			p.WinReward, p.LossReward)
	case p.DrawReward < p.LossReward || p.DrawReward > p.WinReward:
		return errors.Wrapf(ErrInvalidParams, "draw_reward: %v outside [%v, %v]",
			p.DrawReward, p.LossReward, p.WinReward)
	case p.LossReward > 0 || p.WinReward < 0:
		return errors.Wrapf(ErrInvalidParams, "rewards: span [%v, %v] must contain 0",
			p.LossReward, p.WinReward)
	case p.Episodes < 0:
		return errors.Wrapf(ErrInvalidParams, "episodes: %d is negative", p.Episodes)
	case p.MoveCeiling < 1:
		return errors.Wrapf(ErrInvalidParams, "move_ceiling: %d must be positive", p.MoveCeiling)
	case p.Workers < 0:
		return errors.Wrapf(ErrInvalidParams, "workers: %d is negative", p.Workers)
	}

	return nil
}

// Reward returns the terminal reward for outcome from the point of view of mover.
func (p Params) Reward(outcome quixo.Outcome, mover quixo.Mark) float64 {
	switch outcome.Winner() {
	case mover:
		return p.WinReward
	case mover.Opponent():
		return p.LossReward
	}

	return p.DrawReward
}

// Complement converts a value scored for one player into the other player's view.
func (p Params) Complement(v float64) float64 {
	return p.WinReward + p.LossReward - v
}

// LoadParams reads YAML-encoded params from r. Fields absent from the
// document keep their DefaultParams values.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return p, errors.Wrap(err, "decoding params")
	}

	if err := p.Validate(); err != nil {
		return p, err
	}

	return p, nil
}
