// Package filestore implementa el almacenamiento en archivos JSON:
// data/submissions.json (arreglo, solo anexar) y data/inventories/<clave>--<categoria>--<hash>.json.
//
// Política de retención: sobrescritura. Existe a lo sumo un snapshot vivo por (clave, categoría);
// cada Upsert reemplaza el documento completo.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/inventory"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// Driver nombre del backend.
const Driver = "file"

const (
	submissionsFile = "submissions.json"
	inventoriesDir  = "inventories"
)

var _ repository.Storage = (*Store)(nil)

// Store backend de archivos. Seguro para uso concurrente dentro de un proceso:
// el log de envíos tiene su propio mutex y cada snapshot se serializa por clave.
type Store struct {
	root            string
	submissionsPath string
	inventDir       string
	log             *logger.Logger
	now             func() time.Time

	subMu sync.Mutex
	keys  *keyLocks
}

// New prepara el directorio raíz (crea carpetas y submissions.json vacío si faltan).
func New(root string, log *logger.Logger) (*Store, error) {
	if root == "" {
		root = "data"
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		root:            root,
		submissionsPath: filepath.Join(root, submissionsFile),
		inventDir:       filepath.Join(root, inventoriesDir),
		log:             log.Component("filestore"),
		now:             func() time.Time { return time.Now().UTC() },
		keys:            newKeyLocks(),
	}
	if err := s.ensureStorage(); err != nil {
		return nil, domain.StorageWriteError(err)
	}
	return s, nil
}

func (s *Store) Driver() string { return Driver }

func (s *Store) Close() error { return nil }

// Root directorio raíz de los datos.
func (s *Store) Root() string { return s.root }

func (s *Store) ensureStorage() error {
	if err := os.MkdirAll(s.inventDir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", s.inventDir, err)
	}
	if _, err := os.Stat(s.submissionsPath); errors.Is(err, fs.ErrNotExist) {
		return writeJSONAtomic(s.submissionsPath, []*entity.Submission{})
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", s.submissionsPath, err)
	}
	return nil
}

// ── Envíos ───────────────────────────────────────────────────────────────────

// Append agrega el envío al final de submissions.json.
func (s *Store) Append(ctx context.Context, sub *entity.Submission) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()

	list, err := s.readSubmissions()
	if err != nil {
		return "", err
	}
	rec := *sub
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = s.now()
	}
	rec.Items = inventory.AssignUIDs(rec.Items)

	list = append(list, &rec)
	if err := s.writeSubmissions(list); err != nil {
		return "", err
	}
	*sub = rec
	return rec.ID, nil
}

// List devuelve los envíos del más reciente al más antiguo.
func (s *Store) List(ctx context.Context) ([]*entity.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.subMu.Lock()
	list, err := s.readSubmissions()
	s.subMu.Unlock()
	if err != nil {
		return nil, err
	}
	entity.SortNewestFirst(list)
	return list, nil
}

// FindByID busca un envío por id.
func (s *Store) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.subMu.Lock()
	list, err := s.readSubmissions()
	s.subMu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, sub := range list {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, domain.ErrNotFound
}

// readSubmissions lee el log completo. Un archivo corrupto se aparta y se reinicia a []:
// se pierde su contenido, pero el servicio sigue aceptando envíos.
func (s *Store) readSubmissions() ([]*entity.Submission, error) {
	data, err := os.ReadFile(s.submissionsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return []*entity.Submission{}, s.ensureSubmissionsFile()
	}
	if err != nil {
		return nil, domain.StorageReadError(fmt.Errorf("leer %s: %w", submissionsFile, err))
	}
	list := []*entity.Submission{}
	if len(data) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		s.heal(s.submissionsPath, err)
		if werr := writeJSONAtomic(s.submissionsPath, []*entity.Submission{}); werr != nil {
			return nil, domain.StorageWriteError(werr)
		}
		return []*entity.Submission{}, nil
	}
	return list, nil
}

func (s *Store) ensureSubmissionsFile() error {
	if err := s.ensureStorage(); err != nil {
		return domain.StorageWriteError(err)
	}
	return nil
}

func (s *Store) writeSubmissions(list []*entity.Submission) error {
	if err := writeJSONAtomic(s.submissionsPath, list); err != nil {
		return domain.StorageWriteError(err)
	}
	return nil
}

// ── Inventarios ──────────────────────────────────────────────────────────────

// Upsert reemplaza el documento del snapshot (clave, categoría).
func (s *Store) Upsert(ctx context.Context, snap *entity.InventorySnapshot) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	unlock := s.keys.lock(lockKey(snap.Key, snap.Categoria))
	defer unlock()

	doc := *snap
	doc.ID = 0
	doc.Items = inventory.AssignUIDs(snap.Items)
	doc.SavedAt = s.now()
	if err := writeJSONAtomic(s.SnapshotPath(doc.Key, doc.Categoria), &doc); err != nil {
		return time.Time{}, domain.StorageWriteError(err)
	}
	*snap = doc
	return doc.SavedAt, nil
}

// Get lee el snapshot vigente; nil si no existe.
func (s *Store) Get(ctx context.Context, key, categoria string) (*entity.InventorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := s.keys.lock(lockKey(key, categoria))
	defer unlock()
	return s.readSnapshot(key, categoria)
}

// DeleteItems quita ítems por uid y reescribe el mismo documento.
func (s *Store) DeleteItems(ctx context.Context, key, categoria string, uids map[string]struct{}) (entity.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.DeleteResult{}, err
	}
	unlock := s.keys.lock(lockKey(key, categoria))
	defer unlock()

	snap, err := s.readSnapshot(key, categoria)
	if err != nil {
		return entity.DeleteResult{}, err
	}
	if snap == nil {
		return entity.DeleteResult{}, domain.ErrNotFound
	}
	kept, modified := inventory.RemoveByUID(snap.Items, uids)
	if !modified {
		return entity.DeleteResult{Modified: false, Remaining: len(snap.Items)}, nil
	}
	snap.Items = kept
	snap.SavedAt = s.now()
	if err := writeJSONAtomic(s.SnapshotPath(key, categoria), snap); err != nil {
		return entity.DeleteResult{}, domain.StorageWriteError(err)
	}
	return entity.DeleteResult{Modified: true, Remaining: len(kept)}, nil
}

// SnapshotPath ruta del archivo del snapshot (clave, categoría).
func (s *Store) SnapshotPath(key, categoria string) string {
	return filepath.Join(s.inventDir, inventory.SnapshotFileName(key, categoria))
}

func (s *Store) readSnapshot(key, categoria string) (*entity.InventorySnapshot, error) {
	path := s.SnapshotPath(key, categoria)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageReadError(fmt.Errorf("leer %s: %w", filepath.Base(path), err))
	}
	var snap entity.InventorySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Un snapshot ilegible se trata como ausente; el siguiente Upsert lo recrea.
		s.heal(path, err)
		return nil, nil
	}
	if snap.Items == nil {
		snap.Items = []entity.LineItem{}
	}
	return &snap, nil
}

func (s *Store) heal(path string, cause error) {
	ev := s.log.Warn().Str("file", path).AnErr("cause", errors.Join(domain.ErrMalformedData, cause))
	if dst, err := quarantine(path, s.now().UnixNano()); err == nil {
		ev = ev.Str("quarantined", dst)
	}
	ev.Msg("archivo JSON corrupto; se reinicia vacío y se pierde su contenido")
}

func lockKey(key, categoria string) string {
	return key + "\x00" + categoria
}
