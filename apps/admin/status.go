package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

func (cli *commandLine) status(ctx context.Context) error {
	snap, err := cli.views.System.Load(ctx)
	if err != nil {
		return err
	}
	st := snap.Data.Status

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Status:\t%s\n", st.Status)
	fmt.Fprintf(w, "Version:\t%s\n", st.Version)
	fmt.Fprintf(w, "Uptime:\t%s\n", time.Duration(st.Uptime)*time.Second)
	fmt.Fprintf(w, "Database:\t%s\n", st.Database)
	fmt.Fprintf(w, "Active users:\t%d\n", st.ActiveUsers)
	fmt.Fprintf(w, "CPU:\t%.1f%%\n", st.CPU)
	fmt.Fprintf(w, "Memory:\t%.1f%%\n", st.Memory)
	fmt.Fprintf(w, "Disk:\t%.1f%%\n", st.Disk)

	services := make([]string, 0, len(st.Services))
	for name := range st.Services {
		services = append(services, name)
	}
	sort.Strings(services)
	for _, name := range services {
		fmt.Fprintf(w, "  %s:\t%s\n", name, st.Services[name])
	}
	if len(snap.Data.Failures) > 0 {
		fmt.Fprintf(w, "Unavailable:\t%s\n", strings.Join(snap.Data.Failures, ", "))
	}
	return w.Flush()
}
