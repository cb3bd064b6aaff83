package orm

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

type gormStorage struct {
	db      *gorm.DB
	console consoles.Console
}

func NewGormStorage(d gorm.Dialector, console consoles.Console) (storages.Storage, error) {
	l := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         l,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}

	if isInMemory(d) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		sqlDB.SetMaxOpenConns(1)
	}

	console.Debugf("Migrating database...")

	err = db.AutoMigrate(
		&sqlAccount{}, &sqlAccountEmail{},
		&sqlProject{},
		&sqlChange{}, &sqlPatchSet{}, &sqlReviewer{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "error migrating database")
	}

	return &gormStorage{
		db:      db,
		console: console,
	}, nil
}

func (s *gormStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func (s *gormStorage) LoadAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	var row sqlAccount
	err := s.db.WithContext(ctx).Preload("Emails").First(&row, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "account %v", id)
	}

	return row.ToModel(), nil
}

func (s *gormStorage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	var rows []*sqlAccount
	err := s.db.WithContext(ctx).Preload("Emails").Order("id").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "error loading accounts")
	}

	return lo.Map(rows, func(r *sqlAccount, _ int) *model.Account { return r.ToModel() }), nil
}

func (s *gormStorage) WriteAccount(ctx context.Context, account *model.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := newSqlAccount(account)

		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
		if err != nil {
			return errors.Wrapf(err, "error writing account %v", account.ID)
		}

		account.ID = row.ID

		err = tx.Where("account_id = ?", row.ID).Delete(&sqlAccountEmail{}).Error
		if err != nil {
			return errors.Wrapf(err, "error writing emails of account %v", account.ID)
		}

		emails := lo.Map(account.ListEmails(), func(e string, _ int) *sqlAccountEmail {
			return &sqlAccountEmail{Email: e, AccountID: row.ID}
		})
		if len(emails) == 0 {
			return nil
		}

		err = tx.Create(&emails).Error
		if err != nil {
			return errors.Wrapf(err, "error writing emails of account %v", account.ID)
		}

		return nil
	})
}

func (s *gormStorage) QueryAccountsByEmail(ctx context.Context, email string) ([]model.AccountID, error) {
	var ids []model.AccountID
	err := s.db.WithContext(ctx).
		Model(&sqlAccountEmail{}).
		Where("email = ?", model.NormalizeEmail(email)).
		Order("account_id").
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, errors.Wrapf(err, "error querying accounts of %v", email)
	}

	return ids, nil
}

func (s *gormStorage) LoadProject(ctx context.Context, name string) (*model.Project, error) {
	var row sqlProject
	err := s.db.WithContext(ctx).First(&row, "name = ?", name).Error
	if err != nil {
		return nil, notFound(err, "project %v", name)
	}

	return row.ToModel(), nil
}

func (s *gormStorage) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var rows []*sqlProject
	err := s.db.WithContext(ctx).Order("name").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "error loading projects")
	}

	return lo.Map(rows, func(r *sqlProject, _ int) *model.Project { return r.ToModel() }), nil
}

func (s *gormStorage) WriteProject(ctx context.Context, project *model.Project) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(newSqlProject(project)).Error
	if err != nil {
		return errors.Wrapf(err, "error writing project %v", project.Name)
	}

	return nil
}

func (s *gormStorage) LoadChange(ctx context.Context, id model.ChangeID) (*model.Change, error) {
	var row sqlChange
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "change %v", id)
	}

	return row.ToModel(), nil
}

func (s *gormStorage) LoadChangeByKey(ctx context.Context, key string) (*model.Change, error) {
	if key == "" {
		return nil, errors.Wrap(storages.ErrNotFound, "change with empty key")
	}

	var row sqlChange
	err := s.db.WithContext(ctx).First(&row, "change_key = ?", key).Error
	if err != nil {
		return nil, notFound(err, "change %v", key)
	}

	return row.ToModel(), nil
}

func (s *gormStorage) WriteChange(ctx context.Context, change *model.Change) error {
	row := newSqlChange(change)

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
	if err != nil {
		return errors.Wrapf(err, "error writing change %v", change.ID)
	}

	change.ID = row.ID
	return nil
}

func (s *gormStorage) LoadPatchSet(ctx context.Context, change model.ChangeID, number int) (*model.PatchSet, error) {
	var row sqlPatchSet
	err := s.db.WithContext(ctx).First(&row, "change_id = ? AND number = ?", change, number).Error
	if err != nil {
		return nil, notFound(err, "patch set %v/%v", change, number)
	}

	return row.ToModel(), nil
}

func (s *gormStorage) ListPatchSets(ctx context.Context, change model.ChangeID) ([]*model.PatchSet, error) {
	var rows []*sqlPatchSet
	err := s.db.WithContext(ctx).Where("change_id = ?", change).Order("number").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "error loading patch sets of %v", change)
	}

	return lo.Map(rows, func(r *sqlPatchSet, _ int) *model.PatchSet { return r.ToModel() }), nil
}

func (s *gormStorage) WritePatchSet(ctx context.Context, ps *model.PatchSet) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(newSqlPatchSet(ps)).Error
	if err != nil {
		return errors.Wrapf(err, "error writing patch set %v", ps)
	}

	return nil
}

func (s *gormStorage) ListReviewers(ctx context.Context, change model.ChangeID) ([]model.AccountID, error) {
	var rows []*sqlReviewer
	err := s.db.WithContext(ctx).Where("change_id = ?", change).Order("account_id").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "error loading reviewers of %v", change)
	}

	return toAccountIDs(rows), nil
}

func (s *gormStorage) AddReviewers(ctx context.Context, change model.ChangeID, ids []model.AccountID) (int, error) {
	added := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []*sqlReviewer
		err := tx.Where("change_id = ?", change).Find(&existing).Error
		if err != nil {
			return err
		}

		current := set.From(toAccountIDs(existing))

		toAdd := set.New[model.AccountID](len(ids))
		for _, id := range ids {
			if !current.Contains(id) {
				toAdd.Insert(id)
			}
		}
		if toAdd.Empty() {
			return nil
		}

		newIDs := toAdd.Slice()
		sort.Slice(newIDs, func(i, j int) bool { return newIDs[i] < newIDs[j] })

		rows := lo.Map(newIDs, func(id model.AccountID, _ int) *sqlReviewer {
			return &sqlReviewer{ChangeID: change, AccountID: id}
		})

		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
		if err != nil {
			return err
		}

		added = len(rows)
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "error adding reviewers to %v", change)
	}

	return added, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(storages.ErrNotFound, format, args...)
	}

	return errors.Wrapf(err, "error loading "+format, args...)
}

// NamingStrategy drops the sql prefix of the row types from table names.
type NamingStrategy struct {
	schema.NamingStrategy
}

func (n *NamingStrategy) TableName(str string) string {
	return n.NamingStrategy.TableName(strings.TrimPrefix(str, "sql"))
}
