package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/warmcontact/warm-contact/audio"
	"github.com/warmcontact/warm-contact/config"
	"github.com/warmcontact/warm-contact/constant"
	"github.com/warmcontact/warm-contact/core"
	"github.com/warmcontact/warm-contact/engine"
	"github.com/warmcontact/warm-contact/landing"
	"github.com/warmcontact/warm-contact/terminal"
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the page crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warm-contact: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warm-contact: %v\n", err)
		os.Exit(1)
	}
}

// run owns the terminal for the lifetime of the page
func run(cfg config.Config) error {
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log.Printf("seed %d", seed)

	clock := engine.NewTimeProvider()

	// Scene is assigned before the first tick can call the hook
	var scene *landing.Scene
	if cfg.Sound {
		sounds := audio.NewSoundManager(clock, constant.ResetSoundCooldown)
		if err := sounds.Initialize(); err != nil {
			// Non-fatal, the page runs without sound
			log.Printf("audio initialization failed: %v", err)
		} else {
			defer sounds.Cleanup()
			settings.Rain.OnReset = func(column int) {
				sounds.Drip(column, scene.Field().Columns())
			}
		}
	}

	term, err := terminal.NewService(cfg.CellSize)
	if err != nil {
		return err
	}
	if err := term.Start(); err != nil {
		return err
	}
	defer term.Stop()

	scene = landing.NewScene(term.Screen(), clock, rng, settings)
	driver := engine.NewDriver(clock, term, scene, cfg.TickInterval)
	driver.Mount()
	defer driver.Unmount()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	overlay := scene.Overlay()
	for {
		select {
		case ev := <-term.Keys():
			if !overlay.HandleKey(ev) {
				return nil
			}
		case sig := <-sigCh:
			log.Printf("signal %v, exiting", sig)
			return nil
		}
	}
}
