package main

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type config struct {
	Db          *configDb     `mapstructure:"database"`
	Server      *configServer `mapstructure:"server"`
	Export      *configExport `mapstructure:"export"`
	Render      *configRender `mapstructure:"render"`
	Debug       bool          `mapstructure:"debug"`
	initialized bool
}

type configDb struct {
	// Path to the (read-only) WordPress SQLite database file
	File string `mapstructure:"file"`
	// Table prefix of the WordPress installation, "wp_" for most sites
	TablePrefix string `mapstructure:"tablePrefix"`
}

type configServer struct {
	Port int `mapstructure:"port"`
	// Public base address of the site, used to make permalinks site-relative
	PublicAddress  string `mapstructure:"publicAddress"`
	publicHostname string
}

type configExport struct {
	// Include comment documents next to each post (default true)
	Comments bool `mapstructure:"comments"`
	// Root for the temporary working directory, system temp dir when empty
	Dir string `mapstructure:"dir"`
	// File name of the produced archive
	ArchiveName string `mapstructure:"archiveName"`
}

type configRender struct {
	// Treat stored post bodies as markdown and render them to HTML
	Markdown bool `mapstructure:"markdown"`
	// Wrap plain-text paragraphs in <p> tags like the host CMS does
	Autop bool `mapstructure:"autop"`
	// Rewrite site-absolute URLs in rendered bodies to relative ones
	RelativeUrls bool `mapstructure:"relativeUrls"`
}

func (a *wpExport) loadConfigFile(file string) error {
	// Use viper to load the config file
	v := viper.New()
	if file != "" {
		// Use config file from the flag
		v.SetConfigFile(file)
	} else {
		// Search in default locations
		v.SetConfigName("config")
		v.AddConfigPath("./config/")
	}
	// Read config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			// No config file, run with defaults
			a.cfg = createDefaultConfig()
			return nil
		}
		return err
	}
	// Unmarshal config
	a.cfg = createDefaultConfig()
	return v.Unmarshal(a.cfg)
}

func (a *wpExport) initConfig() error {
	if a.cfg == nil {
		a.cfg = createDefaultConfig()
	}
	if a.cfg.initialized {
		return nil
	}
	if a.cfg.Db == nil || a.cfg.Db.File == "" {
		return errors.New("no database file configured")
	}
	if a.cfg.Db.TablePrefix == "" {
		a.cfg.Db.TablePrefix = "wp_"
	}
	// Parse public address
	if a.cfg.Server.PublicAddress == "" {
		return errors.New("no public address configured")
	}
	a.cfg.Server.PublicAddress = strings.TrimSuffix(a.cfg.Server.PublicAddress, "/")
	publicURL, err := url.Parse(a.cfg.Server.PublicAddress)
	if err != nil {
		return errors.New("invalid public address: " + err.Error())
	}
	a.cfg.Server.publicHostname = publicURL.Hostname()
	if a.cfg.Export.ArchiveName == "" {
		a.cfg.Export.ArchiveName = "wordpress-export.zip"
	}
	a.updateLogLevel()
	a.cfg.initialized = true
	a.info("Initialized configuration")
	return nil
}

func createDefaultConfig() *config {
	return &config{
		Db: &configDb{
			File:        "data/wordpress.db",
			TablePrefix: "wp_",
		},
		Server: &configServer{
			Port:          8080,
			PublicAddress: "http://localhost:8080",
		},
		Export: &configExport{
			Comments:    true,
			ArchiveName: "wordpress-export.zip",
		},
		Render: &configRender{
			Autop: true,
		},
	}
}
