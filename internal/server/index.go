package server

// indexHTML is the minimal chat page served at /. It posts to /ask and
// renders the follow-up choice buttons when an offer is outstanding.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>faqbot</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
#messages { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; min-height: 240px; margin-bottom: 1rem; }
.msg { margin: 0.5rem 0; }
.user { text-align: right; color: #226; }
.bot { text-align: left; color: #222; }
.meta { color: #999; font-size: 0.75rem; }
form { display: flex; gap: 0.5rem; }
input { flex: 1; padding: 0.5rem; }
#choices button { margin-right: 0.5rem; }
</style>
</head>
<body>
<h1>faqbot</h1>
<div id="messages"></div>
<div id="choices" hidden>
  <button onclick="choose('yes')">Yes</button>
  <button onclick="choose('no')">No</button>
</div>
<form onsubmit="send(event)">
  <input id="q" autocomplete="off" placeholder="Ask a question...">
  <button type="submit">Send</button>
</form>
<script>
const messages = document.getElementById('messages');
const choices = document.getElementById('choices');

function add(cls, text, meta) {
  const div = document.createElement('div');
  div.className = 'msg ' + cls;
  div.textContent = text;
  if (meta) {
    const m = document.createElement('div');
    m.className = 'meta';
    m.textContent = meta;
    div.appendChild(m);
  }
  messages.appendChild(div);
  messages.scrollTop = messages.scrollHeight;
}

async function send(e) {
  e.preventDefault();
  const input = document.getElementById('q');
  const query = input.value.trim();
  input.value = '';
  add('user', query || '(empty)');
  const resp = await fetch('/ask', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({query})
  });
  const data = await resp.json();
  add('bot', data.answer, data.match ? 'match: ' + data.match + ' · score: ' + data.score : '');
  choices.hidden = !data.answer.endsWith('Would you like me to help with this?');
}

async function choose(choice) {
  choices.hidden = true;
  add('user', choice);
  const resp = await fetch('/followup', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({choice})
  });
  const data = await resp.json();
  add('bot', data.answer);
}
</script>
</body>
</html>`
