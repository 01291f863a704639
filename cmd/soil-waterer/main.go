// Command soil-waterer polls a soil moisture probe through an ADS1115
// ADC, logs classified readings to a date-partitioned log tree, and
// drives the water pump relay. MQTT, InfluxDB, and an HTTP status page
// are optional telemetry surfaces on top of the file log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sweeney/soil-waterer/internal/adc"
	"github.com/sweeney/soil-waterer/internal/hwerr"
	"github.com/sweeney/soil-waterer/internal/influx"
	"github.com/sweeney/soil-waterer/internal/logfile"
	"github.com/sweeney/soil-waterer/internal/logic"
	"github.com/sweeney/soil-waterer/internal/mqtt"
	"github.com/sweeney/soil-waterer/internal/relay"
	"github.com/sweeney/soil-waterer/internal/status"
	"github.com/sweeney/soil-waterer/internal/web"
)

// options collects everything run needs. Flag defaults come from the
// environment (optionally seeded by a .env file) so deployments can
// configure the daemon without editing the unit file.
type options struct {
	baseDir      string
	poll         time.Duration
	logInterval  time.Duration
	threshold    int
	relayPin     int
	adcAddr      uint16
	adcChannel   int
	watering     bool
	pumpOn       time.Duration
	soak         time.Duration
	broker       string
	heartbeat    time.Duration
	httpAddr     string
	wsBroker     string
	influxURL    string
	influxToken  string
	influxOrg    string
	influxBucket string
	sensorID     string
	printReading bool
}

func main() {
	// .env seeds the environment for flag defaults; absence is fine.
	godotenv.Load()

	baseDir := flag.String("base-dir", envOr("SOIL_BASE_DIR", "."), "Base directory for the log tree")
	poll := flag.Duration("poll", time.Second, "Sensor polling interval")
	logInterval := flag.Duration("log-interval", time.Second, "Minimum time between reading log writes")
	threshold := flag.Int("threshold", 19000, "Raw ADC value above which soil is classified dry")
	relayPin := flag.Int("relay-pin", relay.DefaultPin, "BCM pin number for the pump relay")
	adcAddr := flag.Int("adc-addr", adc.DefaultAddr, "I2C address of the ADS1115")
	adcChannel := flag.Int("adc-channel", adc.DefaultChannel, "ADS1115 single-ended channel for the probe")
	watering := flag.Bool("watering", false, "Run the pump when soil is dry (monitor only when unset)")
	pumpOn := flag.Duration("pump-on", 3*time.Second, "Pump run time per watering cycle")
	soak := flag.Duration("soak", 5*time.Minute, "Wait after watering before the next cycle may start")
	broker := flag.String("broker", envOr("SOIL_BROKER", "tcp://192.168.1.200:1883"), "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	influxURL := flag.String("influx-url", os.Getenv("SOIL_INFLUX_URL"), "InfluxDB URL (empty to disable)")
	influxOrg := flag.String("influx-org", envOr("SOIL_INFLUX_ORG", "garden"), "InfluxDB organization")
	influxBucket := flag.String("influx-bucket", envOr("SOIL_INFLUX_BUCKET", "soil"), "InfluxDB bucket")
	sensorID := flag.String("sensor-id", envOr("SOIL_SENSOR_ID", "soil-a0"), "Sensor tag for exported readings")
	printReading := flag.Bool("print-reading", false, "Read the sensor once, print, and exit")

	flag.Parse()

	o := options{
		baseDir:      *baseDir,
		poll:         *poll,
		logInterval:  *logInterval,
		threshold:    *threshold,
		relayPin:     *relayPin,
		adcAddr:      uint16(*adcAddr),
		adcChannel:   *adcChannel,
		watering:     *watering,
		pumpOn:       *pumpOn,
		soak:         *soak,
		broker:       *broker,
		heartbeat:    *heartbeat,
		httpAddr:     *httpAddr,
		wsBroker:     resolveWSBroker(*wsBroker, *broker),
		influxURL:    *influxURL,
		influxToken:  os.Getenv("SOIL_INFLUX_TOKEN"),
		influxOrg:    *influxOrg,
		influxBucket: *influxBucket,
		sensorID:     *sensorID,
		printReading: *printReading,
	}

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	// Acquire the sensor first: without it there is nothing to do.
	sensor, err := adc.NewRealReader(o.adcAddr, o.adcChannel)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer func() {
		if err := sensor.Close(); err != nil {
			log.Printf("cleanup: close adc: %v", err)
		}
	}()

	// Print mode
	if o.printReading {
		raw, voltage, err := sensor.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		fmt.Printf("raw=%d voltage=%.3fV %s\n", raw, voltage, logic.Classify(raw, o.threshold))
		return nil
	}

	// The relay line comes up forced OFF; the deferred cleanup forces it
	// OFF again and releases it on every exit path. Cleanup failures are
	// printed, never returned — they must not block process exit.
	pump, err := relay.NewRealController(o.relayPin)
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}
	defer func() {
		log.Printf("cleanup: forcing pump off")
		if err := pump.Set(false); err != nil {
			log.Printf("cleanup: pump off: %v", err)
		}
		if err := pump.Close(); err != nil {
			log.Printf("cleanup: release relay: %v", err)
		}
	}()

	files := logfile.New(o.baseDir)

	// Telemetry surfaces are optional: a missing broker or Influx just
	// degrades to file logging.
	var pub mqtt.Publisher
	var pubStatus mqtt.ConnectionStatus
	if o.broker != "" {
		real, err := mqtt.NewRealPublisher(o.broker)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			pub = real
			pubStatus = real
			defer real.Close()
		}
	}

	var exporter influx.Writer
	if o.influxURL != "" {
		w, err := influx.NewRealWriter(o.influxURL, o.influxToken, o.influxOrg, o.influxBucket, o.sensorID)
		if err != nil {
			log.Printf("influx disabled: %v", err)
		} else {
			exporter = w
			defer w.Close()
		}
	}

	startTime := time.Now()
	tracker := status.NewTracker(startTime, status.Config{
		PollMs:        o.poll.Milliseconds(),
		LogIntervalMs: o.logInterval.Milliseconds(),
		HeartbeatMs:   o.heartbeat.Milliseconds(),
		DryThreshold:  o.threshold,
		Watering:      o.watering,
		PumpOnMs:      o.pumpOn.Milliseconds(),
		SoakMs:        o.soak.Milliseconds(),
		Broker:        o.broker,
		HTTPAddr:      o.httpAddr,
		BaseDir:       o.baseDir,
		WSBroker:      o.wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	if pub != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := pub.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: poll=%v log-interval=%v threshold=%d watering=%v base-dir=%s",
		o.poll, o.logInterval, o.threshold, o.watering, o.baseDir)

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		sensor:    sensor,
		pump:      pump,
		files:     files,
		pub:       pub,
		pubStatus: pubStatus,
		exporter:  exporter,
		tracker:   tracker,
		gate:      logic.NewGate(o.logInterval),
		planner:   logic.NewPlanner(o.watering, o.pumpOn, o.soak),
		threshold: o.threshold,
		heartbeat: o.heartbeat,
		lastBeat:  startTime,
	}
	return runLoop(l, time.Now, ticker.C, sigCh)
}

// loop holds everything a poll cycle touches. There are no ambient
// globals: hardware handles and rate-limit state live here and are owned
// by runLoop.
type loop struct {
	sensor    adc.Reader
	pump      relay.Controller
	files     *logfile.Logger
	pub       mqtt.Publisher
	pubStatus mqtt.ConnectionStatus
	exporter  influx.Writer
	tracker   *status.Tracker
	gate      *logic.Gate
	planner   *logic.Planner
	threshold int
	heartbeat time.Duration
	lastBeat  time.Time
	pumpIsOn  bool
}

// runLoop runs until a signal arrives (clean shutdown, nil) or a cycle
// fails (the error is appended to the day's error log and returned).
// Relay cleanup is the caller's deferred region, so it runs on both paths.
func runLoop(l *loop, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if l.pub != nil {
				if l.pubStatus != nil {
					l.tracker.SetMQTTConnected(l.pubStatus.IsConnected())
				}
				snap := l.tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  now(),
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := l.pub.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()
			if err := l.cycle(t); err != nil {
				// Any cycle error is fatal: record it, then propagate.
				kind := hwerr.Kind(err)
				log.Printf("cycle error (%s): %v", kind, err)
				if logErr := l.files.Error(t, kind, err.Error(), causeChain(err)); logErr != nil {
					log.Printf("error log write failed: %v", logErr)
				}
				return err
			}
			l.checkHeartbeat(t)
		}
	}
}

// cycle performs one read/classify/log pass. Sensor, relay, and reading
// log failures are returned (fatal); telemetry failures are printed and
// swallowed.
func (l *loop) cycle(t time.Time) error {
	raw, voltage, err := l.sensor.Read()
	if err != nil {
		return fmt.Errorf("read soil sensor: %w", err)
	}

	sample := logic.Sample{Raw: raw, Voltage: voltage, Time: t}
	m := logic.Classify(raw, l.threshold)
	log.Printf("soil: raw=%d voltage=%.3fV %s", raw, voltage, m)

	if l.gate.ShouldLog(t) {
		if err := l.files.Reading(t, logic.ReadingMessage(m, raw), raw, voltage); err != nil {
			return fmt.Errorf("write reading log: %w", err)
		}
	}

	switch l.planner.Next(m, t) {
	case logic.ActionPumpOn:
		log.Printf("soil dry, pump on")
		if err := l.pump.Set(true); err != nil {
			return fmt.Errorf("pump on: %w", err)
		}
		l.pumpIsOn = true
	case logic.ActionPumpOff:
		log.Printf("watering done, pump off")
		if err := l.pump.Set(false); err != nil {
			return fmt.Errorf("pump off: %w", err)
		}
		l.pumpIsOn = false
	}

	pumpState := logic.PumpOff
	if l.pumpIsOn {
		pumpState = logic.PumpOn
	}

	if l.pub != nil {
		event := mqtt.ReadingEvent{
			Timestamp: t,
			Moisture:  m,
			Raw:       raw,
			Voltage:   voltage,
			Pump:      pumpState,
		}
		if err := l.pub.Publish(event); err != nil {
			log.Printf("mqtt publish error: %v", err)
			// Don't crash on publish failure
		}
	}

	if l.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.exporter.WriteReading(ctx, sample, m); err != nil {
			log.Printf("influx write error: %v", err)
		}
		cancel()
	}

	l.tracker.Update(sample, m, pumpState, l.planner.Counts())
	if l.pubStatus != nil {
		l.tracker.SetMQTTConnected(l.pubStatus.IsConnected())
	}

	return nil
}

// checkHeartbeat publishes a HEARTBEAT status snapshot when the interval
// has elapsed.
func (l *loop) checkHeartbeat(t time.Time) {
	if l.heartbeat <= 0 || t.Sub(l.lastBeat) < l.heartbeat {
		return
	}
	l.lastBeat = t

	snap := l.tracker.Snapshot()
	log.Printf("heartbeat: uptime=%v waterings=%d dry=%d wet=%d",
		snap.Uptime().Truncate(time.Second), snap.Counts.Waterings, snap.Counts.DryTicks, snap.Counts.WetTicks)

	if l.pub == nil {
		return
	}
	// Refresh network info for heartbeat
	if net := readNetworkInfo(); net != nil {
		l.tracker.SetNetwork(net)
		snap = l.tracker.Snapshot()
	}
	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := l.pub.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// causeChain renders the unwrap chain of err, one cause per line, for
// the error log's details section.
func causeChain(err error) string {
	var lines []string
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		lines = append(lines, "caused by: "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// envOr returns the environment value for key, or fallback if unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" || broker == "" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
