package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/soil-waterer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"volts": func(v float64) string {
		return fmt.Sprintf("%.3fV", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Soil Waterer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.dry { color: #b30; font-weight: bold; }
.wet { color: green; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Soil Waterer{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Soil</h2>
<table>
<tr><th>Moisture</th><td id="moisture" class="{{if eq (stateOrUnknown (printf "%s" .Moisture)) "DRY"}}dry{{else if eq (stateOrUnknown (printf "%s" .Moisture)) "WET"}}wet{{else}}unknown{{end}}">{{stateOrUnknown (printf "%s" .Moisture)}}</td></tr>
<tr><th>Pump</th><td id="pump" class="{{if eq (printf "%s" .Pump) "ON"}}on{{else}}off{{end}}">{{.Pump}}</td></tr>
{{if .HasReading}}<tr><th>Raw</th><td id="raw">{{.LastRaw}}</td></tr>
<tr><th>Voltage</th><td id="voltage">{{volts .LastVoltage}}</td></tr>
<tr><th>Read at</th><td>{{.LastReadTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
<tr><th>Dry threshold</th><td>{{.Config.DryThreshold}}</td></tr>
<tr><th>Watering</th><td>{{if .Config.Watering}}enabled{{else}}monitor only{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Activity</h2>
<table>
<tr><th>Waterings</th><td>{{.Counts.Waterings}}</td></tr>
<tr><th>Dry samples</th><td>{{.Counts.DryTicks}}</td></tr>
<tr><th>Wet samples</th><td>{{.Counts.WetTicks}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Log interval</th><td>{{.Config.LogIntervalMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Log dir</th><td>{{.Config.BaseDir}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "garden/soil/sensor/readings";
  var dot = document.getElementById("live-dot");
  var moistureEl = document.getElementById("moisture");
  var pumpEl = document.getElementById("pump");
  var rawEl = document.getElementById("raw");
  var voltEl = document.getElementById("voltage");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.soil) {
        moistureEl.textContent = msg.soil.moisture;
        moistureEl.className = msg.soil.moisture === "DRY" ? "dry" : "wet";
        pumpEl.textContent = msg.soil.pump;
        pumpEl.className = msg.soil.pump === "ON" ? "on" : "off";
        if (rawEl) rawEl.textContent = msg.soil.raw;
        if (voltEl) voltEl.textContent = msg.soil.voltage.toFixed(3) + "V";
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
