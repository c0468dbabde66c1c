package service

import (
	"bytes"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-extras/go-kit/must"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/storage"
	"go-marketplace-toko/pkg/refcodec"
)

var errInjected = errors.New("injected failure")

// memDB backs every fake repository. WithinTransaction snapshots the state
// and restores it when fn fails, so rolled back writes disappear.
type memDB struct {
	users    map[uint]model.User
	tokos    map[uint]model.Toko
	kategori map[uint]model.Kategori
	produk   map[uint]model.Produk
	gambar   map[uint]model.GambarProduk

	nextID uint
	clock  time.Time

	// failures[op] fails the op once it has been called more than after times.
	failures map[string]*failure
	calls    map[string]int
}

type failure struct {
	after int
	err   error
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[uint]model.User{},
		tokos:    map[uint]model.Toko{},
		kategori: map[uint]model.Kategori{},
		produk:   map[uint]model.Produk{},
		gambar:   map[uint]model.GambarProduk{},
		clock:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		failures: map[string]*failure{},
		calls:    map[string]int{},
	}
}

func (m *memDB) failAfter(op string, after int) {
	m.failures[op] = &failure{after: after, err: errInjected}
}

func (m *memDB) fail(op string) error {
	m.calls[op]++
	if f, ok := m.failures[op]; ok && m.calls[op] > f.after {
		return f.err
	}
	return nil
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memDB) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

type memSnapshot struct {
	tokos  map[uint]model.Toko
	produk map[uint]model.Produk
	gambar map[uint]model.GambarProduk
	users  map[uint]model.User
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memDB) WithinTransaction(fn func(tx *gorm.DB) error) error {
	snap := memSnapshot{
		tokos:  copyMap(m.tokos),
		produk: copyMap(m.produk),
		gambar: copyMap(m.gambar),
		users:  copyMap(m.users),
	}
	err := fn(nil)
	if err == nil {
		err = m.fail("commit")
	}
	if err != nil {
		m.tokos, m.produk, m.gambar, m.users = snap.tokos, snap.produk, snap.gambar, snap.users
		return err
	}
	return nil
}

// seeding helpers

func (m *memDB) addUser(nama string, role model.Role) model.User {
	u := model.User{Nama: nama, Username: nama, Role: role}
	u.ID = m.id()
	u.CreatedAt = m.tick()
	m.users[u.ID] = u
	return u
}

func (m *memDB) addToko(owner uint, nama string) model.Toko {
	t := model.Toko{IDUser: owner, NamaToko: nama, Deskripsi: "desc " + nama, KontakToko: "0812", Alamat: "Jl. " + nama}
	t.ID = m.id()
	t.CreatedAt = m.tick()
	t.UpdatedAt = t.CreatedAt
	m.tokos[t.ID] = t
	return t
}

func (m *memDB) addKategori(nama string) model.Kategori {
	k := model.Kategori{ID: m.id(), NamaKategori: nama}
	m.kategori[k.ID] = k
	return k
}

func (m *memDB) addProduk(tokoID, kategoriID uint, nama string, stok int, harga string) model.Produk {
	p := model.Produk{
		IDKategori: kategoriID,
		IDToko:     tokoID,
		NamaProduk: nama,
		Harga:      decimal.RequireFromString(harga),
		Stok:       stok,
		Deskripsi:  "desc " + nama,
	}
	p.ID = m.id()
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	p.TanggalUpload = p.CreatedAt
	m.produk[p.ID] = p
	return p
}

func (m *memDB) addGambar(produkID uint, name string) model.GambarProduk {
	g := model.GambarProduk{ID: m.id(), IDProduk: produkID, NamaGambar: name, CreatedAt: m.tick()}
	m.gambar[g.ID] = g
	return g
}

func (m *memDB) gambarOf(produkID uint) []model.GambarProduk {
	var out []model.GambarProduk
	for _, g := range m.gambar {
		if g.IDProduk == produkID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// preload fills the relations the gorm repository preloads.
func (m *memDB) preload(p model.Produk) model.Produk {
	if k, ok := m.kategori[p.IDKategori]; ok {
		p.Kategori = &k
	}
	if t, ok := m.tokos[p.IDToko]; ok {
		p.Toko = &t
	}
	p.GambarProduk = m.gambarOf(p.ID)
	return p
}

// user repository

type fakeUserRepo struct{ m *memDB }

var _ repository.UserRepository = fakeUserRepo{}

func (r fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeUserRepo) FindByID(id uint) (*model.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r fakeUserRepo) Create(user *model.User) error {
	if err := r.m.fail("user.create"); err != nil {
		return err
	}
	for _, u := range r.m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.m.id()
	user.CreatedAt = r.m.tick()
	r.m.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) Update(user *model.User) error {
	r.m.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	u, ok := r.m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashedPassword
	r.m.users[userID] = u
	return nil
}

func (r fakeUserRepo) FindAll() ([]model.User, error) {
	var users []model.User
	for _, u := range r.m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r fakeUserRepo) FindByRoleNot(role model.Role) ([]model.User, error) {
	var users []model.User
	for _, u := range r.m.users {
		if u.Role != role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Nama < users[j].Nama })
	return users, nil
}

func (r fakeUserRepo) UpdateTokenVersion(userID uint, version string) error {
	u, ok := r.m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TokenVersion = version
	r.m.users[userID] = u
	return nil
}

// toko repository

type fakeTokoRepo struct{ m *memDB }

var _ repository.TokoRepository = fakeTokoRepo{}

func (r fakeTokoRepo) withUser(t model.Toko) model.Toko {
	if u, ok := r.m.users[t.IDUser]; ok {
		t.User = &u
	}
	return t
}

func (r fakeTokoRepo) FindAll() ([]model.Toko, error) {
	var tokos []model.Toko
	for _, t := range r.m.tokos {
		tokos = append(tokos, r.withUser(t))
	}
	sort.Slice(tokos, func(i, j int) bool {
		if !tokos[i].CreatedAt.Equal(tokos[j].CreatedAt) {
			return tokos[i].CreatedAt.After(tokos[j].CreatedAt)
		}
		return tokos[i].ID > tokos[j].ID
	})
	return tokos, nil
}

func (r fakeTokoRepo) FindByID(id uint) (*model.Toko, error) {
	t, ok := r.m.tokos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	t = r.withUser(t)
	return &t, nil
}

func (r fakeTokoRepo) FindByUserID(userID uint) (*model.Toko, error) {
	for _, t := range r.m.tokos {
		if t.IDUser == userID {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeTokoRepo) unique(t *model.Toko) error {
	for _, other := range r.m.tokos {
		if other.IDUser == t.IDUser && other.ID != t.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	return nil
}

func (r fakeTokoRepo) Create(toko *model.Toko) error {
	if err := r.m.fail("toko.create"); err != nil {
		return err
	}
	if err := r.unique(toko); err != nil {
		return err
	}
	toko.ID = r.m.id()
	toko.CreatedAt = r.m.tick()
	toko.UpdatedAt = toko.CreatedAt
	stored := *toko
	stored.User, stored.Produk = nil, nil
	r.m.tokos[toko.ID] = stored
	return nil
}

func (r fakeTokoRepo) Update(toko *model.Toko) error {
	if err := r.m.fail("toko.update"); err != nil {
		return err
	}
	if err := r.unique(toko); err != nil {
		return err
	}
	toko.UpdatedAt = r.m.tick()
	stored := *toko
	stored.User, stored.Produk = nil, nil
	r.m.tokos[toko.ID] = stored
	return nil
}

func (r fakeTokoRepo) Delete(_ *gorm.DB, id uint) error {
	if err := r.m.fail("toko.delete"); err != nil {
		return err
	}
	delete(r.m.tokos, id)
	return nil
}

// kategori repository

type fakeKategoriRepo struct{ m *memDB }

var _ repository.KategoriRepository = fakeKategoriRepo{}

func (r fakeKategoriRepo) FindAll() ([]model.Kategori, error) {
	var out []model.Kategori
	for _, k := range r.m.kategori {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NamaKategori < out[j].NamaKategori })
	return out, nil
}

func (r fakeKategoriRepo) FindByID(id uint) (*model.Kategori, error) {
	k, ok := r.m.kategori[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &k, nil
}

func (r fakeKategoriRepo) SeedDefaults() error {
	for _, k := range model.DefaultKategori {
		r.m.addKategori(k.NamaKategori)
	}
	return nil
}

// produk repository

type fakeProdukRepo struct{ m *memDB }

var _ repository.ProdukRepository = fakeProdukRepo{}

func (r fakeProdukRepo) FindByToko(tokoID uint) ([]model.Produk, error) {
	var out []model.Produk
	for _, p := range r.m.produk {
		if p.IDToko == tokoID {
			out = append(out, r.m.preload(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r fakeProdukRepo) FindByID(id uint) (*model.Produk, error) {
	p, ok := r.m.produk[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.m.preload(p)
	return &p, nil
}

func (r fakeProdukRepo) strip(p *model.Produk) model.Produk {
	stored := *p
	stored.Kategori, stored.Toko, stored.GambarProduk = nil, nil, nil
	return stored
}

func (r fakeProdukRepo) Create(_ *gorm.DB, produk *model.Produk) error {
	if err := r.m.fail("produk.create"); err != nil {
		return err
	}
	produk.ID = r.m.id()
	produk.CreatedAt = r.m.tick()
	produk.UpdatedAt = produk.CreatedAt
	r.m.produk[produk.ID] = r.strip(produk)
	return nil
}

func (r fakeProdukRepo) Update(_ *gorm.DB, produk *model.Produk) error {
	if err := r.m.fail("produk.update"); err != nil {
		return err
	}
	produk.UpdatedAt = r.m.tick()
	r.m.produk[produk.ID] = r.strip(produk)
	return nil
}

func (r fakeProdukRepo) Delete(_ *gorm.DB, id uint) error {
	if err := r.m.fail("produk.delete"); err != nil {
		return err
	}
	delete(r.m.produk, id)
	return nil
}

func (r fakeProdukRepo) DeleteByToko(_ *gorm.DB, tokoID uint) error {
	for id, p := range r.m.produk {
		if p.IDToko == tokoID {
			delete(r.m.produk, id)
		}
	}
	return nil
}

func (r fakeProdukRepo) GetTokoStats(tokoID uint, lowStockBelow int) (*repository.TokoStats, error) {
	stats := &repository.TokoStats{TotalValuation: decimal.Zero}
	for _, p := range r.m.produk {
		if p.IDToko != tokoID {
			continue
		}
		stats.TotalProduk++
		if p.Stok < lowStockBelow {
			stats.LowStockCount++
		}
		stats.TotalValuation = stats.TotalValuation.Add(p.Harga.Mul(decimal.NewFromInt(int64(p.Stok))))
	}
	return stats, nil
}

// gambar produk repository

type fakeGambarRepo struct{ m *memDB }

var _ repository.GambarProdukRepository = fakeGambarRepo{}

func (r fakeGambarRepo) Create(_ *gorm.DB, gambar *model.GambarProduk) error {
	if err := r.m.fail("gambar.create"); err != nil {
		return err
	}
	gambar.ID = r.m.id()
	gambar.CreatedAt = r.m.tick()
	r.m.gambar[gambar.ID] = *gambar
	return nil
}

func (r fakeGambarRepo) FindByProduk(produkIDs ...uint) ([]model.GambarProduk, error) {
	var out []model.GambarProduk
	for _, id := range produkIDs {
		out = append(out, r.m.gambarOf(id)...)
	}
	return out, nil
}

func (r fakeGambarRepo) DeleteByIDs(_ *gorm.DB, produkID uint, ids []uint) error {
	if err := r.m.fail("gambar.delete"); err != nil {
		return err
	}
	for _, id := range ids {
		if g, ok := r.m.gambar[id]; ok && g.IDProduk == produkID {
			delete(r.m.gambar, id)
		}
	}
	return nil
}

func (r fakeGambarRepo) DeleteByProduk(_ *gorm.DB, produkIDs ...uint) error {
	if err := r.m.fail("gambar.delete"); err != nil {
		return err
	}
	for _, pid := range produkIDs {
		for id, g := range r.m.gambar {
			if g.IDProduk == pid {
				delete(r.m.gambar, id)
			}
		}
	}
	return nil
}

// recordingHub collects published events.
type recordingHub struct {
	mu     sync.Mutex
	events [][]byte
}

func (h *recordingHub) Publish(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, msg)
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func (h *recordingHub) contains(action string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if bytes.Contains(e, []byte(`"action":"`+action+`"`)) {
			return true
		}
	}
	return false
}

// fixture wires every service over one memDB and one afero filesystem.
type fixture struct {
	db    *memDB
	fs    afero.Fs
	codec refcodec.Codec
	hub   *recordingHub

	images *storage.ImageStore
	covers *storage.ImageStore

	owners   *OwnershipResolver
	produk   ProdukService
	toko     TokoService
	tokoSaya TokoSayaService
	users    UserService
	auth     AuthService
	stats    DashboardService
}

func newFixture() *fixture {
	return newFixtureWithFs(afero.NewMemMapFs())
}

func newFixtureWithFs(fs afero.Fs) *fixture {
	f := &fixture{
		db:    newMemDB(),
		fs:    fs,
		codec: must.Must(refcodec.New("test-app-key")),
		hub:   &recordingHub{},
	}
	f.images = storage.NewImageStore(fs, storage.ProdukDir)
	f.covers = storage.NewImageStore(fs, storage.TokoDir)

	userRepo := fakeUserRepo{f.db}
	tokoRepo := fakeTokoRepo{f.db}
	kategoriRepo := fakeKategoriRepo{f.db}
	produkRepo := fakeProdukRepo{f.db}
	gambarRepo := fakeGambarRepo{f.db}

	f.owners = NewOwnershipResolver(tokoRepo)
	attachments := NewAttachmentManager(f.images, gambarRepo)
	purger := NewTokoPurger(tokoRepo, produkRepo, attachments, f.covers, f.db)

	f.produk = NewProdukService(produkRepo, kategoriRepo, f.owners, attachments, f.db, f.codec, f.hub, DefaultMaxUploadBytes)
	f.toko = NewTokoService(tokoRepo, userRepo, purger, f.covers, f.codec, f.hub, DefaultMaxUploadBytes)
	f.tokoSaya = NewTokoSayaService(tokoRepo, f.owners, purger, f.codec, f.hub)
	f.users = NewUserService(userRepo, f.codec)
	f.auth = NewAuthService(userRepo, f.codec)
	f.stats = NewDashboardService(produkRepo, f.owners)
	return f
}

func (f *fixture) ref(id uint) string {
	return must.Must(f.codec.Encode(id))
}

// writeFile puts an existing image into dir, as a previous upload would.
func (f *fixture) writeFile(dir, name string) {
	if err := afero.WriteFile(f.fs, dir+"/"+name, pngBytes, 0o644); err != nil {
		panic(err)
	}
}

func (f *fixture) exists(dir, name string) bool {
	return must.Must(afero.Exists(f.fs, dir+"/"+name))
}

func (f *fixture) files(dir string) []string {
	infos, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names
}

func callerOf(u model.User) Caller {
	return Caller{UserID: u.ID, Name: u.Nama, Role: u.Role}
}

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
)

func pngUpload(name string) ImageUpload {
	return ImageUpload{Filename: name, Data: pngBytes}
}

func validProdukRequest(kategoriID uint) *ProdukRequest {
	return &ProdukRequest{
		IDKategori: strconv.FormatUint(uint64(kategoriID), 10),
		NamaProduk: "Keripik Singkong",
		Harga:      "15000.50",
		Stok:       "12",
		Deskripsi:  "Renyah dan gurih",
		UrlWa:      "https://wa.me/62812",
	}
}
