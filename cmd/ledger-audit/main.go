// Command ledger-audit replays the invariant rules over a persisted ledger
// and reconciles its accounting totals. It exits non-zero when the ledger
// carries a blocking violation or a reconciliation mismatch, making it
// suitable for cron checks and release gates.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"landledger/internal/config"
	"landledger/internal/core"
	"landledger/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ledger-audit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath string
		driver     string
		jsonOut    bool
	)
	fs.StringVar(&configPath, "config", ".", "directory containing landledger.yaml")
	fs.StringVar(&driver, "driver", "", "storage driver override (memory|sqlite|postgres)")
	fs.BoolVar(&jsonOut, "json", false, "emit the report as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	_ = godotenv.Load()

	report, err := run(context.Background(), configPath, driver)
	if err != nil {
		fmt.Fprintf(stderr, "ledger audit failed: %v\n", err)
		return 2
	}
	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "encode report: %v\n", err)
			return 2
		}
	} else {
		report.write(stdout)
	}
	if report.failed() {
		return 1
	}
	return 0
}

type auditReport struct {
	Driver     string             `json:"driver"`
	CheckedAt  time.Time          `json:"checked_at"`
	Properties int                `json:"properties"`
	Positions  int                `json:"positions"`
	Proposals  int                `json:"proposals"`
	Votes      int                `json:"votes"`
	KycRecords int                `json:"kyc_records"`
	Listings   int                `json:"listings"`
	Violations []domain.Violation `json:"violations,omitempty"`
	Findings   []string           `json:"findings,omitempty"`
}

func run(ctx context.Context, configPath, driverOverride string) (*auditReport, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts := core.StorageOptions{
		Driver:      core.StorageDriver(cfg.Storage.Driver),
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	}
	if driverOverride != "" {
		opts.Driver = core.StorageDriver(driverOverride)
	}
	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenStorage(opts, engine)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}
	return audit(ctx, store, engine, string(opts.Driver))
}

// audit evaluates the rule set against committed state inside a read-only
// view and nets the accounting totals the rules do not cover.
func audit(ctx context.Context, store domain.PersistentStore, engine *domain.RulesEngine, driver string) (*auditReport, error) {
	report := &auditReport{Driver: driver, CheckedAt: time.Now().UTC()}
	err := store.View(ctx, func(view domain.TransactionView) error {
		result, err := engine.Evaluate(ctx, view, nil)
		if err != nil {
			return err
		}
		report.Violations = result.Violations
		report.Properties = len(view.ListProperties())
		report.Positions = len(view.ListPositions())
		report.Proposals = len(view.ListProposals())
		report.Votes = len(view.ListVotes())
		report.KycRecords = len(view.ListKycRecords())
		report.Listings = len(view.ListListings())
		report.reconcile(view)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate ledger: %w", err)
	}
	return report, nil
}

func (r *auditReport) reconcile(view domain.RuleView) {
	properties := view.ListProperties()

	if cfg, ok := view.FindPlatformConfig(); ok {
		var locked uint64
		overflow := false
		for _, property := range properties {
			if property.State == domain.PropertySold {
				continue
			}
			sum := locked + property.Valuation
			if sum < locked {
				overflow = true
				break
			}
			locked = sum
		}
		if overflow {
			r.Findings = append(r.Findings, "sum of property valuations overflows uint64")
		} else if locked != cfg.TotalValueLocked {
			r.Findings = append(r.Findings, fmt.Sprintf("platform locked value %d does not match valuation sum %d", cfg.TotalValueLocked, locked))
		}
		if uint64(len(properties)) != cfg.TotalProperties {
			r.Findings = append(r.Findings, fmt.Sprintf("platform counts %d properties but %d are stored", cfg.TotalProperties, len(properties)))
		}
	} else if len(properties) > 0 {
		r.Findings = append(r.Findings, "properties exist but the platform is not initialized")
	}

	for _, listing := range view.ListListings() {
		if !listing.Active {
			continue
		}
		property, ok := view.FindProperty(listing.PropertyID)
		if !ok {
			r.Findings = append(r.Findings, fmt.Sprintf("active listing %s references unknown property %s", listing.ID, listing.PropertyID))
			continue
		}
		if property.State == domain.PropertySold {
			r.Findings = append(r.Findings, fmt.Sprintf("active listing %s on sold property %s", listing.ID, listing.PropertyID))
		}
		position, ok := view.FindPosition(listing.PropertyID, listing.SellerID)
		if !ok || position.SharesOwned < listing.SharesListed {
			r.Findings = append(r.Findings, fmt.Sprintf("listing %s offers %d shares but seller %s holds fewer", listing.ID, listing.SharesListed, listing.SellerID))
		}
	}
}

func (r *auditReport) failed() bool {
	if len(r.Findings) > 0 {
		return true
	}
	for _, v := range r.Violations {
		if v.Severity == domain.SeverityBlock {
			return true
		}
	}
	return false
}

func (r *auditReport) write(w io.Writer) {
	fmt.Fprintf(w, "ledger audit (%s driver) at %s\n", r.Driver, r.CheckedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  properties=%d positions=%d proposals=%d votes=%d kyc=%d listings=%d\n",
		r.Properties, r.Positions, r.Proposals, r.Votes, r.KycRecords, r.Listings)
	for _, v := range r.Violations {
		fmt.Fprintf(w, "  [%s] %s: %s\n", v.Severity, v.Rule, v.Message)
	}
	for _, f := range r.Findings {
		fmt.Fprintf(w, "  [finding] %s\n", f)
	}
	if !r.failed() {
		fmt.Fprintln(w, "ledger audit passed")
	} else {
		fmt.Fprintln(w, "ledger audit failed")
	}
}
