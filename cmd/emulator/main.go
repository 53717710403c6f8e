// cmd/emulator/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/tamzrod/bms-emulator/internal/config"
	"github.com/tamzrod/bms-emulator/internal/metrics"
	"github.com/tamzrod/bms-emulator/internal/mirror"
	"github.com/tamzrod/bms-emulator/internal/poller"
	"github.com/tamzrod/bms-emulator/internal/registers"
	"github.com/tamzrod/bms-emulator/internal/rtu"
	"github.com/tamzrod/bms-emulator/internal/serialport"
	"github.com/tamzrod/bms-emulator/internal/slave"
)

var Version = "dev"

func main() {
	port := flag.String("port", "", "serial device (overrides serial.device)")
	parity := flag.String("parity", "", "parity N, E or O (overrides serial.parity)")
	quiet := flag.Bool("quiet", false, "only log SOC changes and errors")
	frames := flag.Bool("frames", false, "log every RX/TX frame in hex")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: emulator [flags] <config.yaml>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *port != "" {
		cfg.Serial.Device = *port
	}
	if *parity != "" {
		cfg.Serial.Parity = *parity
	}
	if *quiet {
		cfg.Log.Quiet = true
	}
	if *frames {
		cfg.Log.Frames = true
	}

	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Register table
	// --------------------

	table, err := registers.New(registers.Layout{
		Start:  cfg.Registers.Start,
		Count:  cfg.Registers.Count,
		Values: cfg.Registers.Values,
		SOC:    cfg.Registers.SOC,
		SOH:    *cfg.Registers.SOH,
	}, uint16(*cfg.SOC.Default))
	if err != nil {
		log.Fatalf("register table: %v", err)
	}

	collector := metrics.New()

	// --------------------
	// SOC poller (background, own cadence)
	// --------------------

	p, closeSource, err := poller.Build(cfg.SOC, collector)
	if err != nil {
		log.Fatalf("soc source build failed: %v", err)
	}
	defer closeSource()

	go p.Run(ctx, table)

	// --------------------
	// Optional operator surfaces
	// --------------------

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.Listen); err != nil {
				log.Printf("metrics server failed: %v", err)
			}
		}()
	}

	if cfg.Mirror.Listen != "" {
		m, err := mirror.Start(cfg.Mirror.Listen, mirror.NewHandler(cfg.Slave.ID, table, p))
		if err != nil {
			log.Fatalf("mirror: %v", err)
		}
		defer m.Stop()
	}

	// --------------------
	// Serial link
	// --------------------

	link, err := serialport.Open(cfg.Serial)
	if err != nil {
		log.Fatalf("%v", err)
	}

	silence := cfg.Serial.Silence()
	if silence == 0 {
		silence = rtu.Silence(cfg.Serial.Baud, cfg.Serial.DataBits, cfg.Serial.StopBits, cfg.Serial.Parity)
	}
	rx := rtu.NewReceiver(link, silence)

	window, _ := slave.ParseWindowPolicy(cfg.Slave.OutOfWindow)
	srv, err := slave.New(slave.Config{
		Name:      cfg.Serial.Device,
		SlaveID:   cfg.Slave.ID,
		Window:    window,
		LogFrames: cfg.Log.Frames && !cfg.Log.Quiet,
	}, table, rx, slave.NewTransport(link, cfg.Serial.Turnaround()), collector)
	if err != nil {
		log.Fatalf("slave: %v", err)
	}

	log.Printf("START %s port=%s baud=%d parity=%s slave=0x%02X silence=%s soc=%d%%",
		Version, cfg.Serial.Device, cfg.Serial.Baud, cfg.Serial.Parity, cfg.Slave.ID, silence, table.SOC())
	if cfg.SOC.Source == "file" && !cfg.Log.Quiet {
		log.Printf("edit %s to change SOC live", cfg.SOC.File.Path)
	}

	if !cfg.Log.Quiet {
		statusLine := term.IsTerminal(int(os.Stderr.Fd())) && cfg.Log.File == "" && !cfg.Log.Frames
		if statusLine {
			enableTerminalStatus()
		}
		go srv.Report(ctx, time.Duration(*cfg.Log.ReportS)*time.Second, os.Stderr, statusLine)
	}

	// --------------------
	// Serve until signal or link loss
	// --------------------

	serveErr := srv.Serve(ctx)
	rx.Close()
	_ = link.Close()

	st := srv.Stats()
	log.Printf("STOP answered=%d badcrc=%d foreign=%d", st.Answered, st.BadCRC, st.Foreign)
	if serveErr != nil {
		log.Fatalf("serial link lost on %s: %v", cfg.Serial.Device, serveErr)
	}
}
