package web

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wellpull/internal/audit"
	"wellpull/internal/jobs"
	"wellpull/internal/planner"
)

const (
	defaultPullingCount = 3
	minPullingCount     = 1
	maxPullingCount     = 10

	maxUploadBytes = 32 << 20
)

func (web *Web) getUpload(w http.ResponseWriter, r *http.Request) {
	web.render(w, r, "upload.html", "Subir Plan Semanal", nil)
}

func (web *Web) postUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		addFlash(w, r, "No se encontró el archivo en la solicitud.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("excel_file")
	if err != nil {
		addFlash(w, r, "No se encontró el archivo en la solicitud.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}
	defer file.Close()

	filename := secureFilename(header.Filename)
	if filename == "" {
		addFlash(w, r, "No se seleccionó ningún archivo.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}

	if err := os.MkdirAll(web.uploadDir, 0o755); err != nil {
		web.uploadError(w, r, err)
		return
	}
	dstPath := filepath.Join(web.uploadDir, uuid.New().String()+"_"+filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		web.uploadError(w, r, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		web.uploadError(w, r, err)
		return
	}
	if err := dst.Close(); err != nil {
		web.uploadError(w, r, err)
		return
	}

	job, err := web.worker.Enqueue(r.Context(), dstPath, header.Filename)
	if err != nil {
		web.uploadError(w, r, err)
		return
	}

	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

func (web *Web) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("web: upload: %v", err)
	addFlash(w, r, fmt.Sprintf("Error al procesar el Excel: %v", err))
	http.Redirect(w, r, "/upload", http.StatusSeeOther)
}

func (web *Web) getJobPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := web.jobStore.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.NotFound(w, r)
		return
	}
	web.render(w, r, "status.html", "Procesando Archivo", map[string]interface{}{
		"JobID": job.ID,
	})
}

func (web *Web) getPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Arriving from a finished job binds its dataset to the session.
	if jobID := r.URL.Query().Get("job"); jobID != "" {
		job, err := web.jobStore.Get(ctx, jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if job == nil || job.Status != jobs.StatusCompleted {
			addFlash(w, r, "La importación aún no terminó.")
			http.Redirect(w, r, "/upload", http.StatusSeeOther)
			return
		}
		sess, err := web.sessions.Ensure(ctx, w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := web.sessions.SetDataset(ctx, sess.ID, job.DatasetID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		addFlash(w, r, job.Message)
		http.Redirect(w, r, "/preview", http.StatusSeeOther)
		return
	}

	sess, ok := web.requireDataset(w, r)
	if !ok {
		return
	}
	ds, err := web.datasets.Get(ctx, sess.DatasetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ds == nil {
		addFlash(w, r, "Debes subir un archivo Excel primero.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}

	web.render(w, r, "preview.html", "Preview del Dataset", map[string]interface{}{
		"Dataset": ds,
	})
}

// zoneOption is one checkbox on the filter page. Checked restores the
// session's previous selection.
type zoneOption struct {
	Name    string
	Checked bool
}

func (web *Web) getFilter(w http.ResponseWriter, r *http.Request) {
	sess, ok := web.requireDataset(w, r)
	if !ok {
		return
	}

	zones, err := web.datasets.Zones(r.Context(), sess.DatasetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	selected := make(map[string]bool, len(sess.Zonas))
	for _, z := range sess.Zonas {
		selected[z] = true
	}
	options := make([]zoneOption, 0, len(zones))
	for _, z := range zones {
		options = append(options, zoneOption{Name: z, Checked: selected[z]})
	}

	count := sess.PullingCount
	if count < minPullingCount || count > maxPullingCount {
		count = defaultPullingCount
	}

	web.render(w, r, "filter.html", "Filtrar Zonas", map[string]interface{}{
		"Zones": options,
		"Count": count,
	})
}

func (web *Web) postFilter(w http.ResponseWriter, r *http.Request) {
	sess, ok := web.requireDataset(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	zonas := r.Form["zonas"]
	if len(zonas) == 0 {
		addFlash(w, r, "Debes seleccionar al menos una zona.")
		http.Redirect(w, r, "/filter", http.StatusSeeOther)
		return
	}

	count := parsePullingCount(r.FormValue("pulling_count"))

	if err := web.sessions.SetFilter(r.Context(), sess.ID, zonas, count); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := fmt.Sprintf("Zonas seleccionadas: %s | Pullings: %d", strings.Join(zonas, ", "), count)
	if _, err := web.audits.Record(r.Context(), audit.Entry{
		ActorType: audit.ActorOperator,
		ActorID:   sess.ID,
		Action:    audit.ActionZonesFiltered,
		Scope:     "session",
		ScopeID:   sess.ID,
		Summary:   summary,
	}); err != nil {
		log.Printf("web: audit filter: %v", err)
	}

	addFlash(w, r, summary)
	http.Redirect(w, r, "/select", http.StatusSeeOther)
}

func (web *Web) getSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := web.requireFilter(w, r)
	if !ok {
		return
	}

	wells, err := web.datasets.WellsByZones(r.Context(), sess.DatasetID, sess.Zonas)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pozos := make([]string, 0, len(wells))
	for _, well := range wells {
		pozos = append(pozos, well.Pozo)
	}
	slots := make([]int, sess.PullingCount)
	for i := range slots {
		slots[i] = i + 1
	}

	web.render(w, r, "select.html", "Seleccionar Pozos para Pulling", map[string]interface{}{
		"Slots": slots,
		"Pozos": pozos,
	})
}

func (web *Web) postSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := web.requireFilter(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	choices := make([]SlotChoice, 0, sess.PullingCount)
	seen := make(map[string]bool, sess.PullingCount)
	for i := 1; i <= sess.PullingCount; i++ {
		pozo := r.FormValue(fmt.Sprintf("pulling_pozo_%d", i))
		if pozo == "" {
			addFlash(w, r, "Debes seleccionar un pozo para cada pulling.")
			http.Redirect(w, r, "/select", http.StatusSeeOther)
			return
		}
		if seen[pozo] {
			addFlash(w, r, "Error: No puedes seleccionar el mismo pozo para más de un pulling.")
			http.Redirect(w, r, "/select", http.StatusSeeOther)
			return
		}
		seen[pozo] = true
		choices = append(choices, SlotChoice{Slot: i, Pozo: pozo})
	}

	if err := web.sessions.SetSlots(r.Context(), sess.ID, choices); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := web.audits.Record(r.Context(), audit.Entry{
		ActorType: audit.ActorOperator,
		ActorID:   sess.ID,
		Action:    audit.ActionPullingSelected,
		Scope:     "session",
		ScopeID:   sess.ID,
		Summary:   fmt.Sprintf("%d pullings asignados a pozos iniciales", len(choices)),
	}); err != nil {
		log.Printf("web: audit select: %v", err)
	}

	addFlash(w, r, "Selección de Pulling confirmada.")
	http.Redirect(w, r, "/assign", http.StatusSeeOther)
}

func (web *Web) getAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := web.requireFilter(w, r)
	if !ok {
		return
	}

	choices, err := web.sessions.Slots(ctx, sess.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(choices) == 0 {
		addFlash(w, r, "Debes seleccionar los pozos para pulling primero.")
		http.Redirect(w, r, "/select", http.StatusSeeOther)
		return
	}

	wells, err := web.datasets.WellMap(ctx, sess.DatasetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	zoneWells, err := web.datasets.WellsByZones(ctx, sess.DatasetID, sess.Zonas)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	taken := make(map[string]bool, len(choices))
	slots := make([]planner.Slot, 0, len(choices))
	for _, c := range choices {
		taken[c.Pozo] = true
		slots = append(slots, planner.Slot{Number: c.Slot, Pozo: c.Pozo, RemainingHours: c.RemainingHours})
	}
	available := make([]string, 0, len(zoneWells))
	for _, well := range zoneWells {
		if !taken[well.Pozo] {
			available = append(available, well.Pozo)
		}
	}

	plan := planner.Assign(slots, available, wells)

	if _, err := web.audits.Record(ctx, audit.Entry{
		ActorType: audit.ActorOperator,
		ActorID:   sess.ID,
		Action:    audit.ActionPlanGenerated,
		Scope:     "session",
		ScopeID:   sess.ID,
		Summary:   fmt.Sprintf("matriz de prioridad generada para %d pullings", len(slots)),
	}); err != nil {
		log.Printf("web: audit assign: %v", err)
	}

	extra := append(plan.Warnings, "Proceso de asignación completado.")
	web.render(w, r, "assign.html", "Matriz de Prioridad", map[string]interface{}{
		"Rows": plan.Rows,
	}, extra...)
}

func (web *Web) getGuide(w http.ResponseWriter, r *http.Request) {
	web.render(w, r, "guide.html", "Guía de Uso", map[string]interface{}{
		"Guide": web.guideHTML,
	})
}

// requireDataset ensures the session has an imported dataset, redirecting
// to the upload page otherwise.
func (web *Web) requireDataset(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := web.sessions.Ensure(r.Context(), w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if sess.DatasetID == "" {
		addFlash(w, r, "Debes subir un archivo Excel primero.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

// requireFilter additionally ensures zones have been selected.
func (web *Web) requireFilter(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := web.requireDataset(w, r)
	if !ok {
		return nil, false
	}
	if len(sess.Zonas) == 0 || sess.PullingCount == 0 {
		addFlash(w, r, "Debes filtrar las zonas primero.")
		http.Redirect(w, r, "/filter", http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

// parsePullingCount parses the submitted count, defaulting and clamping to
// the slider's range. The HTML control enforces the range client-side only.
func parsePullingCount(value string) int {
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultPullingCount
	}
	if count < minPullingCount {
		return minPullingCount
	}
	if count > maxPullingCount {
		return maxPullingCount
	}
	return count
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// secureFilename flattens an uploaded filename to a safe basename.
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return ""
	}
	return name
}
