package site

// pageTemplates holds every page of the site. Pages are executed by name.
const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html lang="ru" data-theme="{{.Theme}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{if .Title}}{{.Title}} | {{end}}{{.SiteTitle}}</title>
<link rel="stylesheet" href="/static/main.css">
<link rel="stylesheet" id="theme-dark" href="{{.Styles.Dark.Href}}"{{if .Styles.Dark.Disabled}} disabled{{end}}>
<link rel="stylesheet" id="theme-light" href="{{.Styles.Light.Href}}"{{if .Styles.Light.Disabled}} disabled{{end}}>
</head>
<body{{if .Static}} data-static="true"{{end}}{{if .Live}} data-live="true"{{end}}>
<header>
<div class="header-container">
{{if .View.Key.Article}}<div id="menu-slot">{{template "menu" .View.Menu}}</div>{{end}}
<a href="/" class="header">{{.SiteTitle}}</a>
</div>
<form method="post" action="/theme/toggle" class="theme-form">
<button type="submit" id="toggleSwitch" class="toggle-switch" aria-label="theme" data-theme-toggle>
<span class="toggle-circle"></span>
</button>
</form>
</header>
{{end}}

{{define "foot"}}<script src="/static/app.js"></script>
</body>
</html>
{{end}}

{{define "card"}}<div class="card">
<h1 class="card-title">{{.Title}}</h1>
<div class="card-description">{{.Description}}</div>
<a class="card-description" href="{{.Href}}">НАЧАТЬ ИЗУЧЕНИЕ</a>
</div>
{{end}}

{{define "home"}}{{template "head" .}}
<section id="hero">
<h2>Туториалы по программированию</h2>
<p>Изучайте программирование с нашими удобными и информативными туториалами.</p>
</section>
<section id="tutorials">
{{range .Cards}}{{template "card" .}}{{end}}
</section>
{{template "foot" .}}{{end}}

{{define "section"}}{{template "head" .}}
<section id="tutorials">
{{range .Cards}}{{template "card" .}}{{end}}
</section>
{{template "foot" .}}{{end}}

{{define "menu"}}<button id="menu-button" class="menu-button" type="button" aria-label="menu">
<span></span>
<span></span>
<span></span>
</button>
<aside class="vertical-menu-content" id="vertical-menu">
{{range .Chapters}}<div>
<div class="chapter"><b>{{.Title}}</b></div>
{{range .Items}}<a id="{{.ID}}" class="item{{if .Selected}} selected{{end}}" href="{{.Path}}"><b>{{.Title}}</b></a>
{{end}}</div>
{{end}}</aside>
{{end}}

{{define "pagenav"}}<nav class="navigation-panel">
{{if .Links.Back}}<a href="{{.Links.Back}}">НАЗАД</a>{{end}}
<nav class="sub-navigation-panel">
<a href="/">ГЛАВНАЯ</a>
<a href="{{.SectionPath}}">РАЗДЕЛ</a>
</nav>
{{if .Links.Forward}}<a href="{{.Links.Forward}}">ДАЛЕЕ</a>{{end}}
</nav>
{{end}}

{{define "article"}}{{template "head" .}}
<main class="article" id="article" data-section="{{.View.Key.Section}}" data-tutorial="{{.View.Key.Tutorial}}" data-article="{{.View.Key.Article}}">
<div id="content" class="content">{{.Content}}</div>
<div id="pagenav-slot">{{template "pagenav" .Nav}}</div>
</main>
{{template "foot" .}}{{end}}

{{define "notfound"}}{{template "head" .}}
<section id="hero">
<h2>404</h2>
<p>Страница не найдена.</p>
<p><a href="/">ГЛАВНАЯ</a></p>
</section>
{{template "foot" .}}{{end}}
`

const mainCSS = `/* ============ Layout ============ */
* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  background: var(--bg);
  color: var(--fg);
  line-height: 1.6;
}

a { color: var(--accent); }

header {
  display: flex;
  align-items: center;
  justify-content: space-between;
  padding: 0.75rem 1.5rem;
  background: var(--header-bg);
  border-bottom: 1px solid var(--border);
  position: sticky;
  top: 0;
  z-index: 10;
}

.header-container { display: flex; align-items: center; gap: 1rem; }

.header {
  font-weight: 800;
  font-size: 1.4rem;
  letter-spacing: 0.1em;
  text-decoration: none;
  color: var(--fg);
}

/* ============ Cards ============ */
#hero { text-align: center; padding: 3rem 1rem 1rem; }

#tutorials {
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(280px, 1fr));
  gap: 1.5rem;
  padding: 2rem;
  max-width: 1200px;
  margin: 0 auto;
}

.card {
  background: var(--card-bg);
  border: 1px solid var(--border);
  border-radius: 12px;
  padding: 1.5rem;
  display: flex;
  flex-direction: column;
  gap: 0.75rem;
}

.card-title { font-size: 1.3rem; margin: 0; }
.card-description { color: var(--muted); }
a.card-description { margin-top: auto; font-weight: 700; color: var(--accent); }

/* ============ Menu ============ */
.menu-button {
  background: none;
  border: none;
  cursor: pointer;
  display: flex;
  flex-direction: column;
  gap: 4px;
  padding: 6px;
}

.menu-button span {
  display: block;
  width: 24px;
  height: 3px;
  background: var(--fg);
  border-radius: 2px;
}

.vertical-menu-content {
  display: none;
  position: fixed;
  top: 60px;
  left: 0;
  bottom: 0;
  width: 300px;
  overflow-y: auto;
  background: var(--header-bg);
  border-right: 1px solid var(--border);
  padding: 1rem;
}

.vertical-menu-content.open { display: block; }

.chapter { margin: 1rem 0 0.25rem; color: var(--muted); }

.item {
  display: block;
  padding: 0.3rem 0.5rem;
  border-radius: 6px;
  text-decoration: none;
  color: var(--fg);
}

.item:hover, .item.selected { background: var(--card-bg); color: var(--accent); }

/* ============ Article ============ */
.article { max-width: 860px; margin: 0 auto; padding: 2rem 1.5rem; }

.content pre {
  position: relative;
  padding: 1rem;
  border-radius: 8px;
  overflow-x: auto;
  background: var(--code-bg);
}

.content code { font-family: "JetBrains Mono", Consolas, monospace; font-size: 0.9rem; }

.copy-button {
  display: block;
  margin: 1rem 0 -0.5rem auto;
  padding: 0.2rem 0.75rem;
  font-size: 0.8rem;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--card-bg);
  color: var(--fg);
  cursor: pointer;
}

.navigation-panel {
  display: flex;
  justify-content: space-between;
  align-items: center;
  margin-top: 3rem;
  padding-top: 1rem;
  border-top: 1px solid var(--border);
}

.sub-navigation-panel { display: flex; gap: 1.5rem; margin: 0 auto; }
.navigation-panel a { font-weight: 700; text-decoration: none; }

/* ============ Theme toggle ============ */
.theme-form { margin: 0; }

.toggle-switch {
  position: relative;
  width: 60px;
  height: 30px;
  border-radius: 15px;
  border: none;
  background: var(--toggle-bg);
  cursor: pointer;
}

.toggle-circle {
  position: absolute;
  top: 2.5px;
  left: 2.5px;
  width: 25px;
  height: 25px;
  border-radius: 50%;
  background: var(--toggle-fg);
  transition: transform 0.2s;
}

html[data-theme="light"] .toggle-circle { transform: translateX(30px); }
`

const darkCSS = `:root {
  --bg: #14161a;
  --fg: #e6e6e6;
  --muted: #9aa0a6;
  --accent: #7aa2f7;
  --border: #2a2e35;
  --header-bg: #1b1e23;
  --card-bg: #1f232a;
  --code-bg: #272822;
  --toggle-bg: #3b3f46;
  --toggle-fg: #f0c674;
}
`

const lightCSS = `:root {
  --bg: #ffffff;
  --fg: #1f2328;
  --muted: #59636e;
  --accent: #0969da;
  --border: #d1d9e0;
  --header-bg: #f6f8fa;
  --card-bg: #f6f8fa;
  --code-bg: #f6f8fa;
  --toggle-bg: #d1d9e0;
  --toggle-fg: #ffffff;
}
`

const appJS = `(function() {
  'use strict';

  var body = document.body;
  var isStatic = body.dataset.static === 'true';
  var socket = null;

  // ============ Menu ============
  function bindMenu() {
    var button = document.getElementById('menu-button');
    var menu = document.getElementById('vertical-menu');
    if (!button || !menu) return;
    button.addEventListener('click', function() {
      menu.classList.toggle('open');
    });
  }

  // ============ Theme ============
  function applyTheme(theme) {
    document.documentElement.dataset.theme = theme;
    var dark = document.getElementById('theme-dark');
    var light = document.getElementById('theme-light');
    if (dark) dark.disabled = theme === 'light';
    if (light) light.disabled = theme === 'dark';
    document.cookie = 'theme=' + theme + '; path=/; max-age=31536000; samesite=lax';
  }

  var toggle = document.querySelector('[data-theme-toggle]');
  if (toggle) {
    toggle.addEventListener('click', function(e) {
      if (socket && socket.readyState === WebSocket.OPEN) {
        e.preventDefault();
        socket.send(JSON.stringify({type: 'theme'}));
        return;
      }
      if (isStatic) {
        e.preventDefault();
        var next = document.documentElement.dataset.theme === 'light' ? 'dark' : 'light';
        applyTheme(next);
      }
    });
  }

  // ============ Copy buttons ============
  function labelButtons(id) {
    document.querySelectorAll('button.copy-button').forEach(function(b) {
      b.textContent = b.id === id ? 'скопировано' : 'копировать';
    });
  }

  document.addEventListener('click', function(e) {
    var button = e.target.closest('button.copy-button');
    if (!button) return;
    var target = button.nextElementSibling;
    if (!target || !navigator.clipboard) return;
    navigator.clipboard.writeText(target.innerText).then(function() {
      if (socket && socket.readyState === WebSocket.OPEN) {
        socket.send(JSON.stringify({type: 'copied', button: button.id}));
      } else {
        labelButtons(button.id);
      }
    });
  });

  // ============ Live session ============
  function showView(msg) {
    var content = document.getElementById('content');
    if (content) content.innerHTML = msg.html;
    var menu = document.getElementById('menu-slot');
    if (menu && msg.menu_html) {
      var open = document.getElementById('vertical-menu');
      var wasOpen = open && open.classList.contains('open');
      menu.innerHTML = msg.menu_html;
      bindMenu();
      if (wasOpen) document.getElementById('vertical-menu').classList.add('open');
    }
    var nav = document.getElementById('pagenav-slot');
    if (nav && msg.nav_html) nav.innerHTML = msg.nav_html;
    if (msg.title) document.title = msg.title;
    if (msg.theme && msg.theme !== document.documentElement.dataset.theme) applyTheme(msg.theme);
  }

  function currentKey() {
    var article = document.getElementById('article');
    if (!article) return null;
    return {
      type: 'navigate',
      section: article.dataset.section,
      tutorial: article.dataset.tutorial,
      article: article.dataset.article
    };
  }

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    socket = new WebSocket(proto + location.host + '/live');
    socket.addEventListener('open', function() {
      var key = currentKey();
      if (key) socket.send(JSON.stringify(key));
    });
    socket.addEventListener('message', function(e) {
      var msg = JSON.parse(e.data);
      if (msg.type === 'view') showView(msg);
    });
    socket.addEventListener('close', function() {
      socket = null;
      setTimeout(connect, 2000);
    });
  }

  // In-tutorial links navigate over the socket instead of reloading.
  document.addEventListener('click', function(e) {
    var link = e.target.closest('#vertical-menu a, .navigation-panel > a');
    if (!link || !socket || socket.readyState !== WebSocket.OPEN) return;
    var parts = link.getAttribute('href').split('/').filter(Boolean);
    if (parts.length !== 3) return;
    try {
      parts = parts.map(decodeURIComponent);
    } catch (err) {
      return;
    }
    e.preventDefault();
    history.pushState(null, '', link.getAttribute('href'));
    var article = document.getElementById('article');
    article.dataset.section = parts[0];
    article.dataset.tutorial = parts[1];
    article.dataset.article = parts[2];
    socket.send(JSON.stringify(currentKey()));
  });

  window.addEventListener('popstate', function() {
    location.reload();
  });

  bindMenu();
  if (body.dataset.live === 'true' && !isStatic && 'WebSocket' in window) {
    connect();
  }
})();
`
