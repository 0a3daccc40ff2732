package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportConfig controls rate computation and report presentation.
// The exemption CST lists deliberately differ between the report and the
// interactive dashboard surfaces; both are kept explicit here so the
// divergence is configured, not hardcoded in two places.
type ReportConfig struct {
	IBSBaseRate float64 `mapstructure:"ibsBaseRate"`
	CBSBaseRate float64 `mapstructure:"cbsBaseRate"`

	ReportExemptCSTs    []string `mapstructure:"reportExemptCSTs"`
	DashboardExemptCSTs []string `mapstructure:"dashboardExemptCSTs"`

	Organization string `mapstructure:"organization"`
	TemplatePath string `mapstructure:"templatePath"`
	LogoPath     string `mapstructure:"logoPath"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		IBSBaseRate:         0.10,
		CBSBaseRate:         0.90,
		ReportExemptCSTs:    []string{"400", "410", "510", "550", "620"},
		DashboardExemptCSTs: []string{"400", "410", "510", "515", "550", "620"},
		Organization:        "Consulta ClassTrib",
		TemplatePath:        "assets/modelo-relatorio.xlsx",
		LogoPath:            "assets/logo.png",
	}
}

// ReportConfigHolder exposes the current report config and hot-reloads it
// when the backing file changes.
type ReportConfigHolder struct {
	current atomic.Value // holds ReportConfig
}

func NewReportConfigHolder(cfg Config) (*ReportConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("report")
	v.SetConfigType("yml")
	if path := strings.TrimSpace(cfg.ReportConfigPath); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("/etc/classtrib")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CLASSTRIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportConfig()
	v.SetDefault("report.ibsBaseRate", defaults.IBSBaseRate)
	v.SetDefault("report.cbsBaseRate", defaults.CBSBaseRate)
	v.SetDefault("report.reportExemptCSTs", defaults.ReportExemptCSTs)
	v.SetDefault("report.dashboardExemptCSTs", defaults.DashboardExemptCSTs)
	v.SetDefault("report.organization", defaults.Organization)
	v.SetDefault("report.templatePath", defaults.TemplatePath)
	v.SetDefault("report.logoPath", defaults.LogoPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var rc ReportConfig
	if err := v.UnmarshalKey("report", &rc); err != nil {
		return nil, err
	}
	if err := validateReportConfig(rc); err != nil {
		return nil, err
	}

	holder := &ReportConfigHolder{}
	holder.current.Store(rc)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportConfig
		if err := v.UnmarshalKey("report", &updated); err != nil {
			log.Printf("[report-config] reload failed: %v", err)
			return
		}
		if err := validateReportConfig(updated); err != nil {
			log.Printf("[report-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[report-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ReportConfigHolder) Get() ReportConfig {
	return h.current.Load().(ReportConfig)
}

// NewStaticReportConfigHolder returns a holder pinned to cfg. Test helper.
func NewStaticReportConfigHolder(cfg ReportConfig) *ReportConfigHolder {
	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateReportConfig(cfg ReportConfig) error {
	if cfg.IBSBaseRate < 0 || cfg.CBSBaseRate < 0 {
		return errors.New("report: base rates cannot be negative")
	}
	if len(cfg.ReportExemptCSTs) == 0 {
		return errors.New("report.reportExemptCSTs cannot be empty")
	}
	if len(cfg.DashboardExemptCSTs) == 0 {
		return errors.New("report.dashboardExemptCSTs cannot be empty")
	}
	return nil
}
