package commands

import (
	"ironman-results/lib/restyutil"
	"ironman-results/lib/scrapers/ironmancom"
	"ironman-results/lib/serviceutil"
)

func createClient(dumpDir string) *ironmancom.Client {
	opts := ironmancom.ClientOptions{
		BaseUrl:    cfg.BaseUrl,
		ResultsApi: cfg.ResultsApi,
		EventsUrl:  cfg.EventsUrl,
		UserAgent:  cfg.UserAgent,
		RetryCount: cfg.RetryCount,
		Timeout:    cfg.Timeout(),
		Delay:      cfg.RequestDelay(),
	}
	if dumpDir == "" {
		dumpDir = cfg.DumpHttpDir
	}
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			serviceutil.Fatal("failed to create http dump directory", err)
		}
		opts.Dump = output
	}

	client, err := ironmancom.NewClient(opts)
	if err != nil {
		serviceutil.Fatal("failed to initialize ironman client", err)
	}
	return client
}
