package api

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QRForge</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    gap: 24px;
    padding: 40px 16px;
    flex-wrap: wrap;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 32px;
    width: 100%;
    max-width: 460px;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  h2 { font-size: 16px; font-weight: 600; margin-bottom: 16px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  label { display: block; font-size: 13px; color: #aaa; margin: 12px 0 4px; }
  input, select, textarea {
    width: 100%;
    background: #111;
    color: #e0e0e0;
    border: 1px solid #333;
    border-radius: 8px;
    padding: 8px;
    font-size: 14px;
  }
  input[type=color] { height: 36px; padding: 2px; }
  .row { display: flex; gap: 12px; }
  .row > div { flex: 1; }
  .fields { display: none; }
  .fields.active { display: block; }
  button {
    margin-top: 20px;
    width: 100%;
    padding: 10px;
    border: 0;
    border-radius: 8px;
    background: #6366f1;
    color: #fff;
    font-size: 15px;
    cursor: pointer;
  }
  button.secondary { background: #333; }
  #result { text-align: center; margin-top: 20px; }
  #result img { max-width: 100%; background: #fff; border-radius: 12px; }
  #error { color: #f87171; font-size: 14px; margin-top: 12px; }
  .entry { display: flex; gap: 12px; align-items: center; padding: 8px 0; border-bottom: 1px solid #222; }
  .entry img { width: 56px; height: 56px; background: #fff; border-radius: 6px; }
  .entry small { color: #888; display: block; }
</style>
</head>
<body>
<div class="card">
  <h1>QRForge</h1>
  <p class="subtitle">Generate styled QR codes</p>

  <label for="type">Type</label>
  <select id="type">
    <option value="url">URL</option>
    <option value="text">Text</option>
    <option value="email">Email</option>
    <option value="phone">Phone</option>
    <option value="location">Location</option>
    <option value="vcard">Contact card</option>
    <option value="wifi">WiFi</option>
  </select>

  <div class="fields active" data-type="url">
    <label for="url">URL</label><input id="url" placeholder="https://example.com">
  </div>
  <div class="fields" data-type="text">
    <label for="text">Text</label><textarea id="text" rows="3"></textarea>
  </div>
  <div class="fields" data-type="email">
    <label for="email">Email</label><input id="email">
    <label for="subject">Subject</label><input id="subject">
    <label for="message">Message</label><textarea id="message" rows="2"></textarea>
  </div>
  <div class="fields" data-type="phone">
    <label for="phone">Phone</label><input id="phone">
  </div>
  <div class="fields" data-type="location">
    <div class="row">
      <div><label for="lat">Latitude</label><input id="lat"></div>
      <div><label for="lng">Longitude</label><input id="lng"></div>
    </div>
    <label for="locationType">Map</label>
    <select id="locationType">
      <option value="geo">geo: URI</option>
      <option value="google">Google Maps</option>
      <option value="apple">Apple Maps</option>
      <option value="waze">Waze</option>
    </select>
  </div>
  <div class="fields" data-type="vcard">
    <label for="name">Name</label><input id="name">
    <label for="vphone">Phone</label><input id="vphone">
    <label for="vemail">Email</label><input id="vemail">
    <label for="org">Organisation</label><input id="org">
  </div>
  <div class="fields" data-type="wifi">
    <label for="ssid">Network name</label><input id="ssid">
    <label for="password">Password</label><input id="password">
    <label for="security">Security</label>
    <select id="security">
      <option value="WPA">WPA/WPA2</option>
      <option value="WEP">WEP</option>
      <option value="nopass">None</option>
    </select>
  </div>

  <label for="template">Template</label>
  <select id="template">
    <option value="">None</option>
    <option value="business">Business</option>
    <option value="social">Social</option>
    <option value="minimal">Minimal</option>
    <option value="modern">Modern</option>
  </select>

  <div class="row">
    <div>
      <label for="style">Style</label>
      <select id="style">
        <option value="square">Square</option>
        <option value="rounded">Rounded</option>
        <option value="circle">Circle</option>
        <option value="gapped">Gapped</option>
      </select>
    </div>
    <div>
      <label for="errorCorrection">Error correction</label>
      <select id="errorCorrection">
        <option value="L">L (7%)</option>
        <option value="M" selected>M (15%)</option>
        <option value="Q">Q (25%)</option>
        <option value="H">H (30%)</option>
      </select>
    </div>
  </div>
  <div class="row">
    <div><label for="fgColor">Foreground</label><input type="color" id="fgColor" value="#000000"></div>
    <div><label for="bgColor">Background</label><input type="color" id="bgColor" value="#ffffff"></div>
  </div>
  <div class="row">
    <div>
      <label for="gradientType">Gradient</label>
      <select id="gradientType">
        <option value="none">None</option>
        <option value="linear">Linear</option>
        <option value="radial">Radial</option>
      </select>
    </div>
    <div><label for="gradientColor">Gradient colour</label><input type="color" id="gradientColor" value="#6366f1"></div>
  </div>
  <div class="row">
    <div>
      <label for="frameStyle">Frame</label>
      <select id="frameStyle">
        <option value="none">None</option>
        <option value="simple">Simple</option>
        <option value="rounded">Rounded</option>
        <option value="shadow">Shadow</option>
      </select>
    </div>
    <div><label for="boxSize">Box size</label><input type="number" id="boxSize" value="10" min="1" max="50"></div>
  </div>
  <label for="labelText">Label</label><input id="labelText">
  <label for="logo">Logo</label><input type="file" id="logo" accept="image/*">

  <button id="generate">Generate</button>
  <div id="error"></div>
  <div id="result"></div>
</div>

<div class="card">
  <h2>Recent</h2>
  <div id="history"></div>
  <button class="secondary" id="clear">Clear history</button>
</div>

<script>
(function() {
  var $ = function(id) { return document.getElementById(id); };
  var logoData = '';

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  $('type').addEventListener('change', function() {
    var sections = document.querySelectorAll('.fields');
    for (var i = 0; i < sections.length; i++) {
      sections[i].classList.toggle('active', sections[i].getAttribute('data-type') === $('type').value);
    }
  });

  $('logo').addEventListener('change', function() {
    var f = $('logo').files[0];
    if (!f) { logoData = ''; return; }
    var reader = new FileReader();
    reader.onload = function() { logoData = reader.result; };
    reader.readAsDataURL(f);
  });

  function payload() {
    var type = $('type').value;
    var p = {
      type: type,
      template: $('template').value,
      style: $('style').value,
      errorCorrection: $('errorCorrection').value,
      fgColor: $('fgColor').value,
      bgColor: $('bgColor').value,
      gradientType: $('gradientType').value,
      gradientColor: $('gradientColor').value,
      frameStyle: $('frameStyle').value,
      boxSize: $('boxSize').value,
      labelText: $('labelText').value,
      logo: logoData
    };
    if (p.template) {
      delete p.fgColor; delete p.bgColor; delete p.gradientType; delete p.gradientColor; delete p.style;
    }
    ['url', 'text', 'email', 'subject', 'message', 'phone', 'lat', 'lng', 'locationType',
     'ssid', 'password', 'security', 'name', 'org'].forEach(function(k) { p[k] = $(k).value; });
    if (type === 'vcard') { p.phone = $('vphone').value; p.email = $('vemail').value; }
    return p;
  }

  function renderHistory() {
    fetch('/history')
      .then(function(r) { return r.json(); })
      .then(function(data) {
        var list = $('history');
        clearChildren(list);
        (data.history || []).forEach(function(e) {
          var row = document.createElement('div');
          row.className = 'entry';
          var img = document.createElement('img');
          img.setAttribute('src', e.image);
          img.setAttribute('alt', e.type);
          var text = document.createElement('div');
          text.textContent = e.content;
          var meta = document.createElement('small');
          meta.textContent = e.type + ' · ' + new Date(e.created_at).toLocaleTimeString();
          text.appendChild(meta);
          row.appendChild(img);
          row.appendChild(text);
          list.appendChild(row);
        });
      });
  }

  $('generate').addEventListener('click', function() {
    $('error').textContent = '';
    fetch('/generate', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(payload())
    })
      .then(function(r) { return r.json(); })
      .then(function(data) {
        if (!data.success) {
          $('error').textContent = data.error || 'Generation failed';
          return;
        }
        var out = $('result');
        clearChildren(out);
        var img = document.createElement('img');
        img.setAttribute('src', data.image);
        img.setAttribute('alt', 'QR Code');
        out.appendChild(img);
        var a = document.createElement('a');
        a.setAttribute('href', data.image);
        a.setAttribute('download', 'qrcode.png');
        a.textContent = 'Download';
        out.appendChild(document.createElement('br'));
        out.appendChild(a);
        renderHistory();
      })
      .catch(function() { $('error').textContent = 'Request failed'; });
  });

  $('clear').addEventListener('click', function() {
    fetch('/history', { method: 'DELETE' }).then(renderHistory);
  });

  renderHistory();
})();
</script>
</body>
</html>`
