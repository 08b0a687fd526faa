package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func LibraryPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Prompt Library</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Prompt Library</span>
        <h1>Store prompts. Find them fast.</h1>
        <p>Search, filter by category, and keep everything synced to your store.</p>
      </header>

      <section class="panel toolbar">
        <input id="search" type="search" placeholder="Search prompts..."/>
        <select id="category"><option value="All">All</option></select>
        <button id="saveAll">Save all</button>
        <button id="exportBtn">Export</button>
        <label class="upload">Import<input id="importFile" type="file" accept="application/json" hidden/></label>
      </section>

      <section class="panel">
        <h2>Add a prompt</h2>
        <form id="addForm">
          <input id="addTitle" placeholder="Title" required/>
          <input id="addCategory" placeholder="Category" required/>
          <textarea id="addContent" placeholder="Prompt text" required></textarea>
          <button type="submit" class="primary">Add prompt</button>
        </form>
      </section>

      <section id="groups"></section>
      <div id="empty" class="result" hidden>No prompts yet. Add your first prompt!</div>
      <div id="notice" class="result"></div>
    </main>

    <script>
      const groupsEl = document.getElementById('groups');
      const noticeEl = document.getElementById('notice');
      const emptyEl = document.getElementById('empty');
      const searchEl = document.getElementById('search');
      const categoryEl = document.getElementById('category');

      function notify(message) {
        noticeEl.textContent = message;
        setTimeout(() => { noticeEl.textContent = ''; }, 4000);
      }

      async function refresh() {
        const params = new URLSearchParams({
          query: searchEl.value,
          category: categoryEl.value || 'All',
        });
        const res = await fetch('/api/prompts?' + params);
        if (!res.ok) { notify('Failed to load prompts.'); return; }
        const data = await res.json();
        renderCategories(data.categories || []);
        renderGroups(data.groups || []);
        emptyEl.hidden = (data.groups || []).length > 0;
      }

      function renderCategories(categories) {
        const current = categoryEl.value || 'All';
        categoryEl.innerHTML = '';
        for (const label of ['All', ...categories]) {
          const option = document.createElement('option');
          option.value = label;
          option.textContent = label;
          categoryEl.appendChild(option);
        }
        categoryEl.value = [...categoryEl.options].some(o => o.value === current) ? current : 'All';
      }

      function renderGroups(groups) {
        groupsEl.innerHTML = '';
        for (const group of groups) {
          const section = document.createElement('section');
          section.className = 'panel';
          const heading = document.createElement('h2');
          heading.textContent = group.category;
          section.appendChild(heading);
          for (const prompt of group.prompts) {
            section.appendChild(renderPrompt(prompt));
          }
          groupsEl.appendChild(section);
        }
      }

      function renderPrompt(prompt) {
        const card = document.createElement('article');
        card.className = 'card';
        const title = document.createElement('h3');
        title.textContent = prompt.title;
        const body = document.createElement('pre');
        body.textContent = prompt.content;
        const actions = document.createElement('div');
        actions.className = 'actions';
        const edit = document.createElement('button');
        edit.textContent = 'Edit';
        edit.onclick = () => editPrompt(prompt);
        const del = document.createElement('button');
        del.textContent = 'Delete';
        del.onclick = () => deletePrompt(prompt.id);
        actions.append(edit, del);
        card.append(title, body, actions);
        return card;
      }

      async function editPrompt(prompt) {
        const title = window.prompt('Title', prompt.title);
        if (title === null) return;
        const content = window.prompt('Content', prompt.content);
        if (content === null) return;
        const category = window.prompt('Category', prompt.category);
        if (category === null) return;
        const res = await fetch('/api/prompts/' + prompt.id, {
          method: 'PUT',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ title, content, category }),
        });
        if (!res.ok) {
          const data = await res.json().catch(() => ({}));
          notify(data.error || 'Failed to update prompt.');
          return;
        }
        notify('Prompt updated.');
        refresh();
      }

      async function deletePrompt(id) {
        const res = await fetch('/api/prompts/' + id, { method: 'DELETE' });
        if (!res.ok) { notify('Failed to delete prompt.'); return; }
        notify('Prompt deleted.');
        refresh();
      }

      document.getElementById('addForm').addEventListener('submit', async (event) => {
        event.preventDefault();
        const res = await fetch('/api/prompts', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({
            title: document.getElementById('addTitle').value,
            content: document.getElementById('addContent').value,
            category: document.getElementById('addCategory').value,
          }),
        });
        if (!res.ok) {
          const data = await res.json().catch(() => ({}));
          notify(data.error || 'Failed to add prompt.');
          return;
        }
        event.target.reset();
        notify('Prompt added.');
        refresh();
      });

      document.getElementById('saveAll').addEventListener('click', async () => {
        const res = await fetch('/api/save-all', { method: 'POST' });
        const data = await res.json().catch(() => ({}));
        if (!res.ok) { notify(data.error || 'Failed to save prompts.'); return; }
        const failed = (data.failed || []).length;
        notify(failed > 0 ? 'Saved ' + data.saved + ' prompts, ' + failed + ' failed.' : 'All prompts saved.');
        refresh();
      });

      document.getElementById('exportBtn').addEventListener('click', () => {
        window.location.href = '/api/export';
      });

      document.getElementById('importFile').addEventListener('change', async (event) => {
        const file = event.target.files[0];
        if (!file) return;
        const res = await fetch('/api/import', { method: 'POST', body: await file.text() });
        const data = await res.json().catch(() => ({}));
        if (!res.ok) { notify(data.error || 'Failed to import prompts.'); return; }
        const failed = (data.failed || []).length;
        notify('Imported ' + data.imported + ' prompts' + (failed > 0 ? ', ' + failed + ' failed.' : '.'));
        event.target.value = '';
        refresh();
      });

      searchEl.addEventListener('input', refresh);
      categoryEl.addEventListener('change', refresh);
      refresh();
    </script>
  </body>
</html>
`)
		return nil
	})
}
