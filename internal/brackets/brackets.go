package brackets

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Bracket maps an order-quantity range to the discount applied to the
// final unit price. The discount keys off the range's lower bound.
type Bracket struct {
	Label    string  `mapstructure:"label" json:"label"`
	MinQty   int     `mapstructure:"minQty" json:"min_qty"`
	MaxQty   *int    `mapstructure:"maxQty" json:"max_qty,omitempty"`
	Discount float64 `mapstructure:"discount" json:"discount"`
}

// Schedule is the ordered set of quantity brackets.
type Schedule struct {
	Brackets []Bracket `mapstructure:"brackets"`
}

// DefaultSchedule returns the standard six-bracket discount schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		Brackets: []Bracket{
			{Label: "0-50", MinQty: 0, MaxQty: intPtr(50), Discount: 0},
			{Label: "51-100", MinQty: 51, MaxQty: intPtr(100), Discount: 0.05},
			{Label: "101-200", MinQty: 101, MaxQty: intPtr(200), Discount: 0.10},
			{Label: "201-300", MinQty: 201, MaxQty: intPtr(300), Discount: 0.15},
			{Label: "301-500", MinQty: 301, MaxQty: intPtr(500), Discount: 0.20},
			{Label: "501+", MinQty: 501, MaxQty: nil, Discount: 0.25},
		},
	}
}

func intPtr(v int) *int { return &v }

// Holder keeps the active schedule behind an atomic value so readers
// always see a complete schedule during reloads.
type Holder struct {
	current atomic.Value // holds Schedule
}

func NewHolder(log *zap.Logger) (*Holder, error) {
	v := viper.New()

	v.SetConfigName("brackets")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/pricequote")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PRICEQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultSchedule()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	} else {
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateSchedule(cfg); err != nil {
		return nil, err
	}

	holder := &Holder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Schedule
		if err := v.Unmarshal(&updated); err != nil {
			log.Warn("bracket schedule reload failed", zap.Error(err))
			return
		}
		if err := validateSchedule(updated); err != nil {
			log.Warn("invalid bracket schedule ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("bracket schedule reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *Holder) Get() Schedule {
	return h.current.Load().(Schedule)
}

func validateSchedule(cfg Schedule) error {
	if len(cfg.Brackets) == 0 {
		return errors.New("brackets cannot be empty")
	}
	prev := -1.0
	for i, b := range cfg.Brackets {
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("bracket %d: label is required", i)
		}
		if b.Discount < 0 || b.Discount > 1 {
			return fmt.Errorf("bracket %q: discount must be in [0,1]", b.Label)
		}
		if b.Discount < prev {
			return fmt.Errorf("bracket %q: discounts must be non-decreasing", b.Label)
		}
		prev = b.Discount
	}
	return nil
}

var Module = fx.Module("brackets",
	fx.Provide(NewHolder),
)
