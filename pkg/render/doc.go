// Package render writes a loaded configuration in the formats the Sentry
// framework reads: a sentry.conf.py settings module and a config.yml
// options file.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = render.WriteFile("/etc/sentry/sentry.conf.py", render.FormatPython, cfg)
package render
