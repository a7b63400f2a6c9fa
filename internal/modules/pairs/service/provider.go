package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

const pairsKey = "pairs"

// Provider перечитывает файл пар на каждый цикл, правки подхватываются без рестарта.
type Provider struct {
	path     string
	validate *validator.Validate

	mu   sync.RWMutex
	last []models.Instrument
}

func NewProvider(path string) *Provider {
	return &Provider{
		path:     path,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (p *Provider) Path() string { return p.path }

// Load returns every well-formed record, enabled or not. Broken records are
// skipped with a warning; only an unreadable file is an error.
func (p *Provider) Load(_ context.Context) ([]models.Instrument, error) {
	v := viper.New()
	v.SetConfigFile(p.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read pairs file %s: %w", p.path, err)
	}

	raw, ok := v.Get(pairsKey).([]any)
	if !ok {
		return nil, fmt.Errorf("pairs file %s: %q must be a list", p.path, pairsKey)
	}

	out := make([]models.Instrument, 0, len(raw))
	for i, rec := range raw {
		inst, err := p.decode(rec)
		if err != nil {
			logger.Warn("pairs[%d] skipped: %v", i, err)
			continue
		}
		out = append(out, inst)
	}

	p.mu.Lock()
	p.last = out
	p.mu.Unlock()

	return out, nil
}

// Last returns the records of the latest successful Load.
func (p *Provider) Last() []models.Instrument {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Instrument(nil), p.last...)
}

func (p *Provider) decode(rec any) (models.Instrument, error) {
	var inst models.Instrument
	if err := defaults.Set(&inst); err != nil {
		return inst, fmt.Errorf("defaults: %w", err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &inst,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return inst, err
	}
	if err = dec.Decode(rec); err != nil {
		return inst, fmt.Errorf("decode: %w", err)
	}

	inst.Symbol = strings.ToUpper(strings.TrimSpace(inst.Symbol))
	inst.Timeframe = strings.TrimSpace(inst.Timeframe)
	if err = p.validate.Struct(inst); err != nil {
		return inst, fmt.Errorf("validate: %w", err)
	}

	// пустое значение = не задано, не перетирает сохранённую позицию
	if inst.InitialPosition != "" {
		pos, err := models.ParsePosition(inst.InitialPosition)
		if err != nil {
			return inst, fmt.Errorf("%s: %w", inst.Symbol, err)
		}
		inst.InitialPosition = string(pos)
	}

	return inst, nil
}

// Enabled filters out records with enabled=false.
func Enabled(all []models.Instrument) []models.Instrument {
	out := make([]models.Instrument, 0, len(all))
	for _, inst := range all {
		if inst.Enabled {
			out = append(out, inst)
		}
	}
	return out
}
