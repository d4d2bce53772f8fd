package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/calendar"
	"CHORUS-backend/internal/platform/apierr"
	"CHORUS-backend/internal/platform/clock"
	"CHORUS-backend/internal/platform/ident"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/status"
	"CHORUS-backend/pkg/logger"
)

// Directory: 名前解決と雛形出力に使う名簿
type Directory interface {
	FindByNameExact(ctx context.Context, name string) ([]roster.Person, error)
	List(ctx context.Context, f roster.Filter) ([]roster.Person, error)
}

// Ledger: 出欠台帳への書き込み口
type Ledger interface {
	Upsert(ctx context.Context, personID string, day time.Time, st status.Status, checkedAt time.Time) (attendance.Record, bool, error)
}

type Service struct {
	dir    Directory
	ledger Ledger
	table  *status.Table
	store  *Store
	match  MatchMode
	clock  clock.Clock
	id     ident.IDGen
	log    *zap.Logger
}

type Options struct {
	Table     *status.Table // nil なら status.Default()
	PartMatch MatchMode     // 空なら prefix
}

func NewService(dir Directory, ledger Ledger, store *Store, opt Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.Table == nil {
		opt.Table = status.Default()
	}
	if opt.PartMatch == "" {
		opt.PartMatch = MatchPrefix
	}
	return &Service{
		dir:    dir,
		ledger: ledger,
		table:  opt.Table,
		store:  store,
		match:  opt.PartMatch,
		clock:  clock.Real(),
		id:     ident.NewULID(),
		log:    log,
	}
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

func (s *Service) newResult(mode Mode, source string) (*Result, error) {
	id, err := s.id.New()
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = "api"
	}
	return &Result{BatchID: id, Mode: mode, Source: source, Errors: []string{}, CreatedAt: s.clock.Now().UTC()}, nil
}

// ImportRows: 行モード。行ごとに 名前解決 → 日付 → 状態 → upsert。
// 行エラーは集めて続行し、ストアの障害だけは中断して返す。
func (s *Service) ImportRows(ctx context.Context, source string, rows []Row) (*Result, error) {
	res, err := s.newResult(ModeRows, source)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	for i, raw := range rows {
		r := canonicalRow(raw)
		name, date := r[colName], r[colDate]
		where := fmt.Sprintf("row %d (%s, %s)", i+1, name, date)

		if name == "" {
			res.fail(where + ": name is required")
			continue
		}
		day, err := attendance.ParseDay(date)
		if err != nil {
			res.fail(where + ": date must be YYYY-MM-DD")
			continue
		}
		st, ok := s.table.Normalize(r[colStatus])
		if !ok {
			res.fail(fmt.Sprintf("%s: unrecognized status %q", where, r[colStatus]))
			continue
		}
		cands, err := s.dir.FindByNameExact(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		p, err := resolveRowPerson(cands, r[colPart], s.match)
		if err != nil {
			res.fail(where + ": " + err.Error())
			continue
		}
		if err := s.write(ctx, res, where, p.ID, day, st, now); err != nil {
			return nil, err
		}
	}
	return s.finish(ctx, res)
}

// ImportMatrix: 表モード。1行目が見出しで、厳密な YYYY-MM-DD の列だけを日付列として扱う。
// 名前解決できない行は1件の失敗、空セルは記録しない。
func (s *Service) ImportMatrix(ctx context.Context, source string, table [][]string) (*Result, error) {
	res, err := s.newResult(ModeMatrix, source)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, apierr.ErrInvalid("matrix has no header row")
	}

	nameCol, partCol := -1, -1
	type dateCol struct {
		idx int
		on  string
		day time.Time
	}
	var dates []dateCol
	for i, h := range table[0] {
		if c, ok := canonicalHeader(h); ok {
			switch c {
			case colName:
				nameCol = i
			case colPart:
				partCol = i
			}
			continue
		}
		if d, err := attendance.ParseDay(h); err == nil {
			dates = append(dates, dateCol{idx: i, on: strings.TrimSpace(h), day: d})
		}
	}
	if nameCol < 0 {
		return nil, apierr.ErrInvalid("matrix header has no name column")
	}
	if len(dates) == 0 {
		return nil, apierr.ErrInvalid("matrix header has no YYYY-MM-DD date columns")
	}

	now := s.clock.Now()
	for i, rec := range table[1:] {
		if blank(rec) {
			continue
		}
		name := cell(rec, nameCol)
		where := fmt.Sprintf("row %d (%s)", i+2, name)
		if name == "" {
			res.fail(where + ": name is required")
			continue
		}
		cands, err := s.dir.FindByNameExact(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		p, err := resolveMatrixPerson(cands, cell(rec, partCol))
		if err != nil {
			res.fail(where + ": " + err.Error())
			continue
		}
		for _, dc := range dates {
			v := cell(rec, dc.idx)
			if v == "" {
				continue
			}
			at := fmt.Sprintf("row %d (%s, %s)", i+2, name, dc.on)
			st, ok := s.table.Normalize(v)
			if !ok {
				res.fail(fmt.Sprintf("%s: unrecognized status %q", at, v))
				continue
			}
			if err := s.write(ctx, res, at, p.ID, dc.day, st, now); err != nil {
				return nil, err
			}
		}
	}
	return s.finish(ctx, res)
}

// write: upsert。APIError（入力起因）は行エラー、それ以外は中断。
func (s *Service) write(ctx context.Context, res *Result, where, personID string, day time.Time, st status.Status, now time.Time) error {
	_, _, err := s.ledger.Upsert(ctx, personID, day, st, now)
	if err == nil {
		res.Succeeded++
		return nil
	}
	var ae *apierr.APIError
	if errors.As(err, &ae) {
		res.fail(where + ": " + ae.Message)
		return nil
	}
	return fmt.Errorf("%s: %w", where, err)
}

func (s *Service) finish(ctx context.Context, res *Result) (*Result, error) {
	if err := s.store.Insert(ctx, *res); err != nil {
		return nil, fmt.Errorf("record import batch: %w", err)
	}
	s.log.Info("import finished",
		zap.String(logger.FieldOperation, "import."+strings.ToLower(string(res.Mode))),
		zap.String(logger.FieldBatchID, res.BatchID),
		zap.String("source", res.Source),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed))
	return res, nil
}

// ImportFile: CSV / xlsx を読み mode に応じて取り込む
func (s *Service) ImportFile(ctx context.Context, mode Mode, filename string, data []byte) (*Result, error) {
	table, err := DecodeTable(filename, data)
	if err != nil {
		return nil, apierr.Invalidf("cannot read %s: %v", filename, err)
	}
	switch mode {
	case ModeRows:
		return s.ImportRows(ctx, filename, RowsFromTable(table))
	case ModeMatrix:
		return s.ImportMatrix(ctx, filename, table)
	}
	return nil, apierr.Invalidf("unknown import mode %q", mode)
}

func (s *Service) Get(ctx context.Context, batchID string) (*Result, error) {
	r, err := s.store.Get(ctx, batchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("import batch not found")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const templateSheet = "출석부"

// Template: 指定月の表モード用の雛形。見出しは 이름 / 파트 / 奉仕日、在籍者を1行ずつ。
func (s *Service) Template(ctx context.Context, year int, month time.Month) (*excelize.File, error) {
	start, end := calendar.MonthRange(year, month, time.UTC)
	days := calendar.ServiceDays(start, end)

	active := true
	people, err := s.dir.List(ctx, roster.Filter{Active: &active})
	if err != nil {
		return nil, err
	}
	order := map[roster.Part]int{}
	for i, pi := range roster.Parts() {
		order[pi.Code] = i
	}
	slices.SortStableFunc(people, func(a, b roster.Person) int {
		if d := order[a.Part] - order[b.Part]; d != 0 {
			return d
		}
		return strings.Compare(a.Name, b.Name)
	})

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	header := []any{"이름", "파트"}
	for _, d := range days {
		header = append(header, d.Format(attendance.DateLayout))
	}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, p := range people {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(templateSheet, cellName, &[]any{p.Name, p.Part.Label()}); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(templateSheet, "A1", last, style)
	}
	_ = f.SetColWidth(templateSheet, "A", "A", 14)
	if err := f.SetPanes(templateSheet, &excelize.Panes{
		Freeze: true, XSplit: 2, YSplit: 1, TopLeftCell: "C2", ActivePane: "bottomRight",
	}); err != nil {
		s.log.Warn("freeze panes failed", zap.Error(err))
	}
	return f, nil
}
