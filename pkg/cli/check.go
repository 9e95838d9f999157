package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/freightguard/carriervet/pkg/fmcsa"
	"github.com/freightguard/carriervet/pkg/scoring"
)

var (
	usdotFlag = &urfave.StringFlag{
		Name:  "usdot",
		Usage: "Carrier USDOT number",
	}

	mcFlag = &urfave.StringFlag{
		Name:  "mc",
		Usage: "Carrier MC (docket) number",
	}

	signalsFlag = &urfave.StringFlag{
		Name:  "signals",
		Usage: "Path to a JSON or YAML file with manual verification signals (insurer callback, load-board observations, web presence)",
	}

	checkCmd = &urfave.Command{
		Name:            "check",
		Aliases:         []string{"c"},
		Usage:           "Vet a single carrier and print the score",
		UsageText: `carriervet check --usdot 1234567                 # score by USDOT number
   carriervet check --mc 654321 --format yaml       # score by MC number, YAML output
   carriervet check --usdot 1234567 --signals v.yaml # include manual verification signals`,
		HideHelpCommand: true,
		Action:          cmdCheckCarrier,
		Flags: []urfave.Flag{
			usdotFlag,
			mcFlag,
			signalsFlag,
			formatFlag,
		},
	}
)

func cmdCheckCarrier(c *urfave.Context) error {
	id, err := fmcsa.ParseIdentifier(c.String(usdotFlag.Name), c.String(mcFlag.Name))
	if err != nil {
		return err
	}

	var sig *fmcsa.Signals
	if path := c.String(signalsFlag.Name); path != "" {
		sig, err = readSignalsFile(path)
		if err != nil {
			return err
		}
	}

	cfg := getConfig(c)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Conf.Timeout())
	defer cancel()

	res, err := vetCarrier(ctx, cfg.Client, id, sig)
	if err != nil {
		return err
	}
	return encode(res)
}

// vetCarrier runs the whole pipeline for one carrier: fetch, normalize,
// score, assemble the flat result. Shared by the CLI command and the
// HTTP handler.
func vetCarrier(ctx context.Context, client *fmcsa.Client, id fmcsa.Identifier, sig *fmcsa.Signals) (*checkResponse, error) {
	rec, err := client.FetchAll(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := fmcsa.Normalize(rec, sig)
	score := scoring.Compute(profile)

	out := &checkResponse{
		CheckID:        uuid.NewString(),
		TotalScore:     score.Score,
		Grade:          score.Grade,
		Recommendation: score.Recommendation,
		RiskLevel:      score.RiskLevel,
		AutoReject:     score.AutoReject,
		Categories:     score.Categories,
		RejectTriggers: score.RejectTriggers,
		ModelVersion:   score.ModelVersion,
		CheckedAt:      score.CheckedAt,
	}
	switch id.Kind {
	case fmcsa.IdentifierMC:
		out.MCNumber = id.Value
	default:
		out.USDOTNumber = id.Value
	}
	if rec.Snapshot != nil {
		car := rec.Snapshot.Content.Carrier
		out.LegalName = car.LegalName
		out.DBAName = car.DBAName
		if out.USDOTNumber == "" && car.DOTNumber > 0 {
			out.USDOTNumber = fmt.Sprintf("%d", car.DOTNumber)
		}
	}
	return out, nil
}

// checkResponse is the flat vetting result, shared by the CLI and the
// HTTP API. auto_reject is always a boolean.
type checkResponse struct {
	CheckID        string                  `json:"check_id" yaml:"checkId"`
	USDOTNumber    string                  `json:"usdot_number,omitempty" yaml:"usdotNumber,omitempty"`
	MCNumber       string                  `json:"mc_number,omitempty" yaml:"mcNumber,omitempty"`
	LegalName      string                  `json:"legal_name,omitempty" yaml:"legalName,omitempty"`
	DBAName        string                  `json:"dba_name,omitempty" yaml:"dbaName,omitempty"`
	TotalScore     int                     `json:"total_score" yaml:"totalScore"`
	Grade          string                  `json:"grade" yaml:"grade"`
	Recommendation string                  `json:"recommendation" yaml:"recommendation"`
	RiskLevel      scoring.RiskLevel       `json:"risk_level" yaml:"riskLevel"`
	AutoReject     bool                    `json:"auto_reject" yaml:"autoReject"`
	Categories     []scoring.CategoryScore `json:"categories" yaml:"categories"`
	RejectTriggers []scoring.Trigger       `json:"reject_triggers" yaml:"rejectTriggers"`
	Error          string                  `json:"error,omitempty" yaml:"error,omitempty"`
	ModelVersion   string                  `json:"model_version" yaml:"modelVersion"`
	CheckedAt      time.Time               `json:"checked_at" yaml:"checkedAt"`
}

func readSignalsFile(path string) (*fmcsa.Signals, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signals file: %w", err)
	}

	var sig fmcsa.Signals
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &sig)
	default:
		err = json.Unmarshal(b, &sig)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing signals file %s: %w", path, err)
	}
	return &sig, nil
}
