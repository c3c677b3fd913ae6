package parser

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/season"
)

// Skip reasons. Every error returned by Decode matches exactly one of these
// under errors.Is.
var (
	ErrMalformed      = errors.New("malformed match document")
	ErrMissingInfo    = errors.New("match has no info block")
	ErrMissingInnings = errors.New("match has no innings list")
)

// ---- Wire format ----

type wireMatch struct {
	Info    *wireInfo     `json:"info"`
	Innings []wireInnings `json:"innings" validate:"dive"`
}

type wireInfo struct {
	Season seasonLabel `json:"season"`
}

type wireInnings struct {
	Team  string     `json:"team"`
	Overs []wireOver `json:"overs" validate:"dive"`
}

type wireOver struct {
	Over       int            `json:"over"`
	Deliveries []wireDelivery `json:"deliveries" validate:"dive"`
}

type wireDelivery struct {
	Batter  string       `json:"batter" validate:"required"`
	Bowler  string       `json:"bowler" validate:"required"`
	Runs    *wireRuns    `json:"runs" validate:"required"`
	Extras  wireExtras   `json:"extras"`
	Wickets []wireWicket `json:"wickets" validate:"dive"`
}

type wireRuns struct {
	Batter *int `json:"batter" validate:"required,min=0"`
	Extras int  `json:"extras" validate:"min=0"`
	Total  *int `json:"total" validate:"required,min=0"`
}

type wireExtras struct {
	Wides   int `json:"wides" validate:"min=0"`
	NoBalls int `json:"noballs" validate:"min=0"`
	Byes    int `json:"byes" validate:"min=0"`
	LegByes int `json:"legbyes" validate:"min=0"`
	Penalty int `json:"penalty" validate:"min=0"`
}

type wireWicket struct {
	Kind      string        `json:"kind" validate:"required"`
	PlayerOut string        `json:"player_out" validate:"required"`
	Fielders  []wireFielder `json:"fielders" validate:"dive"`
}

type wireFielder struct {
	Name       string `json:"name" validate:"required"`
	Substitute bool   `json:"substitute"`
}

// seasonLabel accepts both "2007/08" and a bare 2008.
type seasonLabel struct {
	text string
	set  bool
}

func (s *seasonLabel) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := sonic.Unmarshal(b, &str); err != nil {
			return err
		}
		s.text, s.set = str, true
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return errors.Newf("season: unsupported value %s", b)
	}
	s.text, s.set = string(b), true
	return nil
}

// ---- Decoder ----

// Decoder turns archive entries into MatchRecords. It is safe for concurrent use.
type Decoder struct {
	validate *validator.Validate
}

// New returns a Decoder.
func New() *Decoder {
	return &Decoder{validate: validator.New()}
}

// Decode parses one archive entry. name is used for error context and recorded
// as the record's Source.
func (d *Decoder) Decode(name string, data []byte) (*model.MatchRecord, error) {
	var wm wireMatch
	if err := sonic.Unmarshal(data, &wm); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s", name), ErrMalformed)
	}
	if wm.Info == nil {
		return nil, errors.Wrapf(ErrMissingInfo, "decode %s", name)
	}
	if wm.Innings == nil {
		return nil, errors.Wrapf(ErrMissingInnings, "decode %s", name)
	}
	if err := d.validate.Struct(&wm); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "validate %s", name), ErrMalformed)
	}

	rec := &model.MatchRecord{
		Source:      name,
		RawSeason:   wm.Info.Season.text,
		HasSeason:   wm.Info.Season.set,
		SeasonToken: season.Normalize(wm.Info.Season.text, wm.Info.Season.set),
		Innings:     make([]model.Innings, 0, len(wm.Innings)),
	}
	for _, wi := range wm.Innings {
		if wi.Overs == nil {
			rec.SkippedInnings++
			continue
		}
		inn := model.Innings{Team: wi.Team, Overs: make([]model.Over, 0, len(wi.Overs))}
		for _, wo := range wi.Overs {
			ov := model.Over{Number: wo.Over, Deliveries: make([]model.Delivery, 0, len(wo.Deliveries))}
			for _, wd := range wo.Deliveries {
				ov.Deliveries = append(ov.Deliveries, toDelivery(wd))
			}
			inn.Overs = append(inn.Overs, ov)
		}
		rec.Innings = append(rec.Innings, inn)
	}
	return rec, nil
}

func toDelivery(wd wireDelivery) model.Delivery {
	d := model.Delivery{
		Batter: wd.Batter,
		Bowler: wd.Bowler,
		Runs: model.Runs{
			Batter: *wd.Runs.Batter,
			Total:  *wd.Runs.Total,
			Extras: model.Extras{
				Wides:   wd.Extras.Wides,
				NoBalls: wd.Extras.NoBalls,
				Byes:    wd.Extras.Byes,
				LegByes: wd.Extras.LegByes,
				Penalty: wd.Extras.Penalty,
			},
		},
	}
	for _, ww := range wd.Wickets {
		w := model.Wicket{Kind: model.DismissalKind(ww.Kind), PlayerOut: ww.PlayerOut}
		for _, f := range ww.Fielders {
			w.Fielders = append(w.Fielders, f.Name)
		}
		d.Wickets = append(d.Wickets, w)
	}
	return d
}
