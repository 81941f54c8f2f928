package contextmd

import "github.com/andywolf/forge/internal/scanner"

// framework maps a declared dependency to a display name.
type framework struct {
	dep  string
	name string
}

// frameworks are listed in priority order (first match wins). Web and
// application frameworks come before libraries that merely support them.
var frameworks = []framework{
	{dep: "django", name: "Django"},
	{dep: "fastapi", name: "FastAPI"},
	{dep: "flask", name: "Flask"},
	{dep: "streamlit", name: "Streamlit"},
	{dep: "next", name: "Next.js"},
	{dep: "nuxt", name: "Nuxt"},
	{dep: "@nestjs/core", name: "NestJS"},
	{dep: "@angular/core", name: "Angular"},
	{dep: "@sveltejs/kit", name: "SvelteKit"},
	{dep: "react", name: "React"},
	{dep: "vue", name: "Vue"},
	{dep: "svelte", name: "Svelte"},
	{dep: "express", name: "Express"},
	{dep: "fastify", name: "Fastify"},
	{dep: "actix-web", name: "Actix Web"},
	{dep: "axum", name: "Axum"},
	{dep: "rocket", name: "Rocket"},
	{dep: "tauri", name: "Tauri"},
	{dep: "clap", name: "clap"},
	{dep: "typer", name: "Typer"},
	{dep: "click", name: "Click"},
}

// DetectFramework returns the most specific framework among the project's
// core dependencies, or "" when none is recognized.
func DetectFramework(p *scanner.ProjectStructure) string {
	core := make(map[string]bool)
	for _, dep := range p.DeclaredDependencies[scanner.GroupCore] {
		core[dep] = true
	}
	for _, fw := range frameworks {
		if core[fw.dep] {
			return fw.name
		}
	}
	return ""
}
