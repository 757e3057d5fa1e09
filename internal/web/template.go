package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/fan-controller/internal/status"
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
	"stateClass": func(s string) string {
		switch s {
		case "ON":
			return "on"
		case "OFF":
			return "off"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Fan Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Fan Controller</h1>

<h2>State</h2>
<table>
<tr><th>Fan</th><td id="fan-state" class="{{stateClass (printf "%s" .Fan)}}">{{printf "%s" .Fan}}</td></tr>
<tr><th>Temperature</th><td id="temp">{{if .HasSample}}{{.LastTemp}} C{{else}}-{{end}}</td></tr>
<tr><th>Threshold</th><td>{{.Config.Threshold}} C</td></tr>
<tr><th>Queue</th><td>{{.QueueLen}} / {{.Config.Capacity}}</td></tr>
<tr><th>Producer</th><td>{{if and (gt .Config.Capacity 0) (ge .QueueLen .Config.Capacity)}}blocked on full queue{{else}}running{{end}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Produced</th><td>{{.Produced}}</td></tr>
<tr><th>Consumed</th><td>{{.Counts.Samples}}</td></tr>
<tr><th>FAN ON</th><td>{{.Counts.FanOn}}</td></tr>
<tr><th>FAN OFF</th><td>{{.Counts.FanOff}}</td></tr>
</table>

{{if .Config.Broker}}<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>
{{end}}
<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Period</th><td>{{.Config.PeriodMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Fan pin</th><td>{{if lt .Config.FanPin 0}}none{{else}}{{.Config.FanPin}}{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/queue.json">queue</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
