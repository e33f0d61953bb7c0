package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/server"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/tray"
)

func main() {
	cfg := app.DefaultConfig()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "", "settings database (default ~/.airdraw/airdraw.db)")
	flag.IntVar(&cfg.Camera.DeviceID, "camera", cfg.Camera.DeviceID, "camera device index")
	flag.IntVar(&cfg.Camera.Width, "width", cfg.Camera.Width, "capture width")
	flag.IntVar(&cfg.Camera.Height, "height", cfg.Camera.Height, "capture height")
	flag.IntVar(&cfg.Camera.FPS, "fps", cfg.Camera.FPS, "active capture frame rate")
	streamFPS := flag.Int("stream-fps", server.DefaultStreamFPS, "MJPEG preview frame rate")
	autoStart := flag.Bool("start", false, "start capturing immediately")
	noTray := flag.Bool("no-tray", false, "run without the system tray icon")
	flag.Parse()

	fmt.Println("airdraw - Gesture Drawing")

	if *dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*dbPath = filepath.Join(homeDir, ".airdraw", "airdraw.db")
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg.Store = st
	a := app.New(cfg)
	defer a.Close()

	srv := server.New(server.Config{
		App:       a,
		Store:     st,
		StreamFPS: *streamFPS,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *autoStart {
		if err := a.Start(); err != nil {
			log.Printf("Failed to start capture: %v", err)
		}
	}

	if *noTray {
		waitForSignal()
		return
	}

	t := tray.New()
	t.SetCapturing(a.IsCapturing())
	t.OnToggle(func(capture bool) error {
		if capture {
			if err := a.Start(); err != nil {
				log.Printf("Failed to start capture: %v", err)
				return err
			}
			return nil
		}
		if err := a.Stop(); err != nil && !errors.Is(err, app.ErrNotCapturing) {
			log.Printf("Failed to stop capture: %v", err)
			return err
		}
		return nil
	})
	t.OnClear(a.Canvas().Clear)
	t.OnUndo(func() { a.Canvas().Undo() })
	t.OnRedo(func() { a.Canvas().Redo() })
	t.OnOpen(func() {
		if err := openBrowser(browserURL(*addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(func() {
		log.Println("Quitting")
	})

	events := a.Canvas().Subscribe()
	go func() {
		for ev := range events {
			t.SetMode(string(ev.State.Mode))
			t.SetCapturing(a.IsCapturing())
		}
	}()

	go func() {
		waitForSignal()
		a.Canvas().Unsubscribe(events)
		t.Quit()
	}()

	// Run blocks on the main thread until Quit.
	t.Run()
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

// browserURL turns a listen address like ":8080" into a local URL.
func browserURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
