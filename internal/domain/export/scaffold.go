package export

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/pagebuilder/internal/shared/slug"
)

// File is one entry of the exported project
type File struct {
	Path string
	Data []byte
}

const (
	globalsPath    = "app/globals.css"
	nextConfigPath = "next.config.mjs"
	tsconfigPath   = "tsconfig.json"
	eslintPath     = ".eslintignore"
	componentsPath = "components.json"
	utilsPath      = "lib/utils.ts"
	readmePath     = "README.md"
)

// reservedPaths may not be supplied as page files
var reservedPaths = map[string]struct{}{
	ManifestPath:   {},
	LayoutPath:     {},
	globalsPath:    {},
	nextConfigPath: {},
	tsconfigPath:   {},
	eslintPath:     {},
	componentsPath: {},
	utilsPath:      {},
	readmePath:     {},
}

var dependencies = map[string]string{
	"class-variance-authority": "^0.7.0",
	"clsx":                     "^2.1.1",
	"framer-motion":            "^11.2.10",
	"lucide-react":             "^0.395.0",
	"next":                     "14.2.4",
	"react":                    "^18.3.1",
	"react-dom":                "^18.3.1",
	"tailwind-merge":           "^2.3.0",
	"tailwindcss-animate":      "^1.0.7",
}

var devDependencies = map[string]string{
	"@types/node":        "^20.14.2",
	"@types/react":       "^18.3.3",
	"@types/react-dom":   "^18.3.0",
	"autoprefixer":       "^10.4.19",
	"eslint":             "^8.57.0",
	"eslint-config-next": "14.2.4",
	"postcss":            "^8.4.38",
	"tailwindcss":        "^3.4.4",
	"typescript":         "^5.4.5",
}

type manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// titlePolicy strips every tag from text placed into generated markdown
var titlePolicy = bluemonday.StrictPolicy()

// PackageName derives an npm-safe package name from a display name
func PackageName(projectName string) string {
	return slug.Slugify(projectName)
}

func manifestFile(projectName string) (File, error) {
	data, err := sonic.ConfigStd.MarshalIndent(manifest{
		Name:    PackageName(projectName),
		Version: "0.1.0",
		Private: true,
		Scripts: map[string]string{
			"dev":   "next dev",
			"build": "next build",
			"start": "next start",
			"lint":  "next lint",
		},
		Dependencies:    dependencies,
		DevDependencies: devDependencies,
	}, "", "  ")
	if err != nil {
		return File{}, fmt.Errorf("encode %s: %w", ManifestPath, err)
	}
	return File{Path: ManifestPath, Data: append(data, '\n')}, nil
}

func scaffoldFiles(projectName string) []File {
	title := strings.TrimSpace(titlePolicy.Sanitize(projectName))
	if title == "" {
		title = PackageName(projectName)
	}

	return []File{
		{Path: globalsPath, Data: []byte(globalsCSS)},
		{Path: nextConfigPath, Data: []byte(nextConfig)},
		{Path: tsconfigPath, Data: []byte(tsconfig)},
		{Path: eslintPath, Data: []byte(eslintIgnore)},
		{Path: componentsPath, Data: []byte(componentsJSON)},
		{Path: utilsPath, Data: []byte(utilsTS)},
		{Path: readmePath, Data: []byte(fmt.Sprintf(readmeTemplate, title))},
	}
}

const globalsCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;

:root {
  --background: 0 0% 100%;
  --foreground: 222.2 84% 4.9%;
}

body {
  background: hsl(var(--background));
  color: hsl(var(--foreground));
}
`

const nextConfig = `/** @type {import('next').NextConfig} */
const nextConfig = {
  reactStrictMode: true,
};

export default nextConfig;
`

const tsconfig = `{
  "compilerOptions": {
    "target": "ES2017",
    "lib": ["dom", "dom.iterable", "esnext"],
    "allowJs": true,
    "skipLibCheck": true,
    "strict": false,
    "noEmit": true,
    "esModuleInterop": true,
    "module": "esnext",
    "moduleResolution": "bundler",
    "resolveJsonModule": true,
    "isolatedModules": true,
    "jsx": "preserve",
    "incremental": true,
    "plugins": [{ "name": "next" }],
    "paths": { "@/*": ["./*"] }
  },
  "include": ["next-env.d.ts", "**/*.ts", "**/*.tsx", ".next/types/**/*.ts"],
  "exclude": ["node_modules"]
}
`

const eslintIgnore = `node_modules/
.next/
out/
components/
`

const componentsJSON = `{
  "$schema": "https://ui.shadcn.com/schema.json",
  "style": "default",
  "rsc": true,
  "tsx": true,
  "tailwind": {
    "config": "tailwind.config.ts",
    "css": "app/globals.css",
    "baseColor": "slate",
    "cssVariables": true
  },
  "aliases": {
    "components": "@/components",
    "utils": "@/lib/utils"
  }
}
`

const utilsTS = `import { type ClassValue, clsx } from "clsx";
import { twMerge } from "tailwind-merge";

export function cn(...inputs: ClassValue[]) {
  return twMerge(clsx(inputs));
}
`

const readmeTemplate = `# %s

Exported from the page builder.

## Getting started

` + "```bash" + `
npm install
npm run dev
` + "```" + `

Open http://localhost:3000 to view the site.
`
