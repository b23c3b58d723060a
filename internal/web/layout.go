package web

import (
	"strconv"
	"time"

	"github.com/starford/mocinformacji/internal/render"
	"github.com/starford/mocinformacji/internal/sse"
)

// Site is the site-wide identity rendered into every page.
type Site struct {
	Name        string
	URL         string
	Description string
	Ads         Ads
	// LiveUpdates adds the change banner, fed by /api/events, to pages
	// that name a topic.
	LiveUpdates bool
}

// PageMeta is the per-page head data.
type PageMeta struct {
	Title       string
	Description string
	Path        string
	Image       string
	// Live is the change stream the page listens to; nil for none.
	Live *sse.Topic
}

func (s Site) pageTitle(meta PageMeta) string {
	if meta.Title == "" {
		return s.Name
	}
	return meta.Title + " | " + s.Name
}

func (s Site) pageDescription(meta PageMeta) string {
	if meta.Description == "" {
		return s.Description
	}
	return meta.Description
}

const dateLayout = "02.01.2006"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// scrollScript highlights the TOC entry of the heading being read and fills
// the progress bar. The offset matches render.ActiveHeading.
var scrollScript = `<script>(function(){
var offset=` + strconv.Itoa(render.ScrollOffset) + `;
var heads=[].slice.call(document.querySelectorAll('.article-content h2[id]'));
var links=[].slice.call(document.querySelectorAll('.toc a'));
var bar=document.getElementById('reading-progress');
function update(){
var y=window.scrollY,active=-1;
for(var i=0;i<heads.length;i++){if(heads[i].offsetTop<=y+offset){active=i;}}
links.forEach(function(a){a.classList.toggle('active',active>=0&&a.getAttribute('href')==='#'+heads[active].id);});
var s=document.documentElement.scrollHeight-window.innerHeight;
var p=s>0?Math.min(Math.max(y/s*100,0),100):0;
if(bar){bar.style.width=p+'%';}
}
window.addEventListener('scroll',update,{passive:true});update();
})();</script>`

const viewCounterScript = `<script>(function(){
var el=document.getElementById('view-count');
if(!el){return;}
fetch('/api/views',{method:'POST'}).then(function(r){return r.json();}).then(function(d){el.textContent=d.views;}).catch(function(){});
})();</script>`

// liveScript subscribes to the banner's topic and reveals the banner on the
// first change.
const liveScript = `<script>(function(){
var box=document.getElementById('live-update');
if(!box||!window.EventSource){return;}
var q=new URLSearchParams();
if(box.dataset.category){q.set('category',box.dataset.category);}
if(box.dataset.slug){q.set('slug',box.dataset.slug);}
var qs=q.toString();
var es=new EventSource('/api/events'+(qs?'?'+qs:''));
function show(){box.classList.remove('d-none');es.close();}
['content.created','content.updated','content.deleted','catalog.updated'].forEach(function(t){es.addEventListener(t,show);});
})();</script>`
