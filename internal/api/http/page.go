package httpapi

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/floodwatch-br/floodwatch/internal/chat"
	"github.com/floodwatch-br/floodwatch/internal/risk"
)

var pageTmpl = template.Must(template.New("page").Parse(tmplPage))

type pageData struct {
	MinDate       string
	MaxDate       string
	DisabledDates []string
	Questions     []string
}

// renderPage serves the dashboard shell. All behaviour on the page is event
// wiring against the JSON API; no business logic lives in the template.
func renderPage(c *fiber.Ctx, a risk.Availability) error {
	data := pageData{
		MinDate:       risk.DayKey(a.MinDate),
		MaxDate:       risk.DayKey(a.MaxDate),
		DisabledDates: dayKeys(a.DisabledDates),
		Questions:     chat.Questions,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

const tmplPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Floodwatch</title>
<link href="https://api.mapbox.com/mapbox-gl-js/v3.5.1/mapbox-gl.css" rel="stylesheet">
<script src="https://api.mapbox.com/mapbox-gl-js/v3.5.1/mapbox-gl.js"></script>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:sans-serif;padding:20px;display:flex;gap:20px}
.panel{background:#f0f0f0;padding:20px;border-radius:15px}
#filter-panel{width:25%}
#filter-panel h3{text-align:center}
#filter-panel .hint{text-align:center;font-size:.9em;color:#666;margin:6px 0 14px}
#filter-panel input[type=date]{width:100%;padding:8px;border:1px solid #ccc;border-radius:6px}
#map-panel{width:75%}
#map-title{font-size:15px;font-weight:600;margin-bottom:10px}
#map{height:80vh;border-radius:8px}
#chat-launcher{position:fixed;right:24px;bottom:24px;width:56px;height:56px;border-radius:50%;
 border:none;background:#1f6feb;color:#fff;font-size:22px;cursor:pointer;box-shadow:0 2px 8px rgba(0,0,0,.3)}
#chat-modal{display:none;position:fixed;right:24px;bottom:92px;width:320px;max-height:480px;
 background:#fff;border:1px solid #ccc;border-radius:12px;box-shadow:0 4px 16px rgba(0,0,0,.25);
 flex-direction:column;overflow:hidden}
#chat-modal.open{display:flex}
#chat-header{background:#1f6feb;color:#fff;padding:10px 14px;display:flex;justify-content:space-between;align-items:center}
#chat-close{background:none;border:none;color:#fff;font-size:18px;cursor:pointer}
#chat-messages{flex:1;overflow-y:auto;padding:10px;display:flex;flex-direction:column;gap:6px}
.msg{padding:6px 10px;border-radius:10px;font-size:13px;max-width:85%}
.msg.user{align-self:flex-end;background:#1f6feb;color:#fff}
.msg.bot{align-self:flex-start;background:#e8e8e8}
.msg.system{align-self:flex-start;background:#fff3cd}
.msg.pending{font-style:italic;color:#666}
#chat-questions{padding:10px;border-top:1px solid #eee;display:flex;flex-direction:column;gap:6px}
#chat-questions button{padding:7px 10px;border:1px solid #1f6feb;background:#fff;color:#1f6feb;
 border-radius:8px;font-size:12px;cursor:pointer;text-align:left}
#chat-questions button:disabled{opacity:.5;cursor:default}
</style>
</head>
<body>

<div class="panel" id="filter-panel">
  <h3>Date Filter</h3>
  <p class="hint">(only available dates)</p>
  <input type="date" id="date-picker" min="{{.MinDate}}" max="{{.MaxDate}}" value="{{.MinDate}}">
</div>

<div class="panel" id="map-panel">
  <div id="map-title"></div>
  <div id="map"></div>
</div>

<button id="chat-launcher" title="Chat">&#128172;</button>
<div id="chat-modal">
  <div id="chat-header">
    <span>Flood Risk Assistant</span>
    <button id="chat-close">&times;</button>
  </div>
  <div id="chat-messages"></div>
  <div id="chat-questions">
    {{range .Questions}}<button class="question">{{.}}</button>
    {{end}}
  </div>
</div>

<script>
const disabledDates = new Set({{.DisabledDates}});
let map = null, sessionId = null, pollTimer = null;

async function fetchJSON(url, opts) {
  const resp = await fetch(url, opts);
  if (!resp.ok) throw new Error('request failed: ' + resp.status);
  return resp.json();
}

async function initMap() {
  const style = await (await fetch('/api/v1/map/style')).json();
  map = new mapboxgl.Map({container: 'map', style: style, center: [-48.5489, -27.5969], zoom: 11});
  map.on('load', () => updateMap(document.getElementById('date-picker').value));
}

async function updateMap(dateStr) {
  const spec = await fetchJSON('/api/v1/map?date=' + encodeURIComponent(dateStr || ''));
  document.getElementById('map-title').textContent = spec.title || '';
  const features = spec.points.map(p => ({
    type: 'Feature',
    geometry: {type: 'Point', coordinates: [p.lon, p.lat]},
    properties: {color: p.color, size: p.size, hover: JSON.stringify(p.hover)}
  }));
  const data = {type: 'FeatureCollection', features: features};
  if (map.getSource('occurrences')) {
    map.getSource('occurrences').setData(data);
    return;
  }
  map.addSource('occurrences', {type: 'geojson', data: data});
  map.addLayer({
    id: 'occurrences',
    type: 'circle',
    source: 'occurrences',
    paint: {
      'circle-color': ['get', 'color'],
      'circle-radius': ['/', ['get', 'size'], 2],
      'circle-opacity': 0.8
    }
  });
  map.on('mouseenter', 'occurrences', e => {
    const h = JSON.parse(e.features[0].properties.hover);
    new mapboxgl.Popup({closeButton: false, className: 'hover-popup'})
      .setLngLat(e.features[0].geometry.coordinates)
      .setHTML('<b>' + h.riskClassification + '</b><br>' +
        'srtm: ' + h.srtmScore + ' · gpm: ' + h.gpmScore + ' · smap: ' + h.smapScore + '<br>' +
        h.recommendedAction + '<br><small>' + h.coordinates + '</small>')
      .addTo(map);
  });
  map.on('mouseleave', 'occurrences', () => {
    document.querySelectorAll('.hover-popup').forEach(p => p.remove());
  });
}

document.getElementById('date-picker').addEventListener('change', e => {
  const picker = e.target;
  // Days without data are functionally blocked: snap back to the last
  // valid selection instead of rendering an empty map by accident.
  if (disabledDates.has(picker.value)) {
    picker.setCustomValidity('No data for the selected date');
    picker.reportValidity();
    picker.value = picker.dataset.lastValid || picker.min;
    return;
  }
  picker.setCustomValidity('');
  picker.dataset.lastValid = picker.value;
  updateMap(picker.value);
});

function renderChat(session) {
  const list = document.getElementById('chat-messages');
  list.innerHTML = '';
  for (const m of session.messages) {
    const div = document.createElement('div');
    div.className = 'msg ' + m.sender + (m.pending ? ' pending' : '');
    div.textContent = m.text;
    list.appendChild(div);
  }
  list.scrollTop = list.scrollHeight;
  const pending = session.state === 'open-pending';
  document.querySelectorAll('#chat-questions button').forEach(b => b.disabled = pending);
  if (pending && !pollTimer) {
    pollTimer = setInterval(pollSession, 1000);
  } else if (!pending && pollTimer) {
    clearInterval(pollTimer);
    pollTimer = null;
  }
}

async function pollSession() {
  if (!sessionId) return;
  renderChat(await fetchJSON('/api/v1/chat/sessions/' + sessionId));
}

async function sendEvent(ev) {
  const session = await fetchJSON('/api/v1/chat/sessions/' + sessionId + '/events', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(ev)
  });
  renderChat(session);
}

document.getElementById('chat-launcher').addEventListener('click', async () => {
  if (!sessionId) {
    const session = await fetchJSON('/api/v1/chat/sessions', {method: 'POST'});
    sessionId = session.id;
  }
  await sendEvent({kind: 'open'});
  document.getElementById('chat-modal').classList.add('open');
});

document.getElementById('chat-close').addEventListener('click', async () => {
  await sendEvent({kind: 'close'});
  document.getElementById('chat-modal').classList.remove('open');
});

document.querySelectorAll('#chat-questions button').forEach(btn => {
  btn.addEventListener('click', () => sendEvent({kind: 'ask', question: btn.textContent}));
});

initMap();
</script>
</body>
</html>
`
