package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// Render prints the report as the French sectioned text shown by the doctor command.
func Render(w io.Writer, r Report) {
	section(w, "Paramètres")
	fmt.Fprintf(w, "URL ciblée : %s\n", r.URL)
	fmt.Fprintf(w, "Timeout    : %s\n", r.Timeout)
	keys := make([]string, 0, len(r.Proxy))
	for key := range r.Proxy {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "%-11s: %s\n", key, r.Proxy[key])
	}

	if r.ExitCode == ExitInvalidURL {
		fmt.Fprintf(w, "⚠️ %s\n", r.Error)
		return
	}

	section(w, "Résolution DNS")
	if r.ExitCode == ExitDNS {
		fmt.Fprintf(w, "❌ %s\n", r.Error)
		renderFooter(w, r)
		return
	}
	fmt.Fprintf(w, "Résolution OK en %.1f ms ➜ %s\n", float64(r.DNSLatency.Microseconds())/1000, strings.Join(r.Addresses, ", "))

	section(w, "Requête HTTPS")
	if r.StatusCode == 0 {
		fmt.Fprintf(w, "❌ Requête échouée : %s\n", r.Error)
		if r.Hint != "" {
			fmt.Fprintln(w, r.Hint)
		}
		renderFooter(w, r)
		return
	}
	fmt.Fprintf(w, "Réponse HTTP %d en %d ms\n", r.StatusCode, r.Latency.Milliseconds())
	fmt.Fprintf(w, "Content-Type: %s\n", r.ContentType)
	if r.OK() {
		fmt.Fprintf(w, "Aperçu:\n%s\n", r.Preview)
	} else {
		fmt.Fprintf(w, "Corps de réponse (200 premiers caractères):\n%s\n", r.Preview)
	}

	section(w, "Résultat")
	if r.OK() {
		fmt.Fprintln(w, "✅ Accès réussi. Lancez un refresh ou attendez le scheduler.")
		return
	}
	renderFooter(w, r)
}

func renderFooter(w io.Writer, r Report) {
	if r.ExitCode != ExitOK && r.ExitCode != ExitRequest {
		fmt.Fprintln(w, "\nℹ️ Vérifiez la connectivité réseau, le proxy et les certificats avant de relancer.")
	}
}
