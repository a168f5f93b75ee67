package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smart-dustbin/internal/config"
	"smart-dustbin/internal/dispatcher"
	"smart-dustbin/internal/journal"
	"smart-dustbin/internal/quotes"
	"smart-dustbin/internal/scheduler"
	"smart-dustbin/internal/serialport"
	"smart-dustbin/internal/speech"
)

// speechDrainTimeout bounds how long shutdown waits for utterances in flight.
const speechDrainTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := quotes.NewStore(newQuoteRepository(cfg.QuotesFilePath))
	log.Printf("Loaded %d quotes", store.Len())

	engine, err := speech.NewEngine(cfg)
	if err != nil {
		log.Printf("failed to init speech provider %s, falling back to log output: %v", cfg.SpeechProvider, err)
		engine = speech.LogEngine{}
	}
	runner := speech.NewRunner(engine, cfg.MaxConcurrentSpeech)

	var opts []dispatcher.Option
	if cfg.JournalFilePath != "" {
		rec, err := journal.Open(cfg.JournalFilePath, cfg.JournalMaxBytes)
		if err != nil {
			log.Printf("failed to init command journal: %v", err)
		} else {
			defer func() {
				if err := rec.Close(); err != nil {
					log.Printf("failed to close command journal: %v", err)
				}
			}()
			opts = append(opts, dispatcher.WithJournal(rec))
		}
	}

	dialer := serialport.Dialer{
		Settle: cfg.SerialSettle,
		Options: serialport.Options{
			PollInterval: cfg.PollInterval,
			ErrorBackoff: cfg.ErrorBackoff,
		},
	}
	var link dispatcher.LineLink
	if l, err := dialer.Dial(ctx, cfg.SerialPort, cfg.SerialBaud); err != nil {
		log.Printf("Failed to establish serial connection: %v", err)
	} else {
		link = l
	}

	session := dispatcher.New(link, runner, store, opts...)

	sched := scheduler.New(time.UTC)
	sched.SetAnnounceFunction(session.AnnounceDaily)
	if err := sched.Start(cfg.DailyQuoteSchedule); err != nil {
		log.Printf("failed to start daily quote scheduler: %v", err)
	}

	if err := session.Run(ctx); err != nil {
		log.Printf("dispatcher stopped: %v", err)
		// speech for scheduled announcements keeps working without the device
		<-ctx.Done()
	}

	log.Println("Shutting down...")
	sched.Stop()
	if err := session.Close(); err != nil {
		log.Printf("failed to close serial link: %v", err)
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), speechDrainTimeout)
	defer cancel()
	if err := runner.Wait(drainCtx); err != nil {
		log.Printf("%d utterances still playing at exit", runner.InFlight())
	}
}

// newQuoteRepository returns the file-backed record, or an in-memory one when
// the data directory cannot be created.
func newQuoteRepository(path string) quotes.Repository {
	repo, err := quotes.NewFileRepository(path)
	if err != nil {
		log.Printf("failed to init quotes file, quotes will not persist: %v", err)
		return &memoryRepository{}
	}
	return repo
}

type memoryRepository struct{ quotes []string }

func (m *memoryRepository) Load() ([]string, error) {
	return append([]string{}, m.quotes...), nil
}

func (m *memoryRepository) Save(q []string) error {
	m.quotes = append([]string{}, q...)
	return nil
}
