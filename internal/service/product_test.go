package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"designator/internal/apperr"
	"designator/internal/designation"
	"designator/internal/model"
	"designator/internal/repository"
	repoMocks "designator/internal/repository/mocks"
)

type productMocks struct {
	products  *repoMocks.MockProductRepository
	documents *repoMocks.MockDocumentRepository
	tx        *repoMocks.MockTransactor
}

func newProductService(t *testing.T, opts Options) (ProductService, productMocks) {
	t.Helper()
	m := productMocks{
		products:  new(repoMocks.MockProductRepository),
		documents: new(repoMocks.MockDocumentRepository),
		tx:        new(repoMocks.MockTransactor),
	}
	t.Cleanup(func() {
		m.products.AssertExpectations(t)
		m.documents.AssertExpectations(t)
		m.tx.AssertExpectations(t)
	})
	return NewProductService(m.products, m.documents, m.tx, opts), m
}

func TestProductService_Register(t *testing.T) {
	ctx := context.Background()
	espd := model.ESPDScope{Classifier: "01"}
	espdScope := designation.ForProduct(espd)

	tests := []struct {
		name       string
		in         RegisterProductInput
		setupMocks func(m productMocks)
		wantErr    error
		wantBase   string
	}{
		{
			name: "happy path allocates the next sequence",
			in:   RegisterProductInput{Name: "  Система учета ", Standard: model.StandardESPD, Scope: espd},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, "product:ЕСПД:01").Return(nil)
				m.products.On("ExistsByName", mock.Anything, "Система учета", model.StandardESPD).Return(false, nil)
				m.products.On("MaxSequence", mock.Anything, espdScope).Return("004", nil)
				m.products.On("ExistsByBaseDesignation", mock.Anything, "RU.TEST.01005").Return(false, nil)
				m.products.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
					return p.Name == "Система учета" &&
						p.BaseDesignation == "RU.TEST.01005" &&
						p.Scope.Sequence() == "005" &&
						p.ID != ""
				})).Return(&model.Product{ID: "p-1", Standard: model.StandardESPD, BaseDesignation: "RU.TEST.01005"}, nil)
			},
			wantBase: "RU.TEST.01005",
		},
		{
			name: "override is used as-is",
			in: RegisterProductInput{Name: "Стенд", Standard: model.StandardGOST34,
				Scope: model.GOST34Scope{OrgCode: "ORG", ClassCode: "CC", RegNum: "045"}},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, "product:ГОСТ 34:ORG|CC").Return(nil)
				m.products.On("ExistsByName", mock.Anything, "Стенд", model.StandardGOST34).Return(false, nil)
				m.products.On("ExistsByBaseDesignation", mock.Anything, "ORG.CC.045").Return(false, nil)
				m.products.On("Create", mock.Anything, mock.Anything).
					Return(&model.Product{ID: "p-2", Standard: model.StandardGOST34, BaseDesignation: "ORG.CC.045"}, nil)
			},
			wantBase: "ORG.CC.045",
		},
		{
			name: "duplicate name",
			in:   RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: espd},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil)
				m.products.On("ExistsByName", mock.Anything, "Система", model.StandardESPD).Return(true, nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "base designation taken",
			in:   RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: espd},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil)
				m.products.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
				m.products.On("MaxSequence", mock.Anything, espdScope).Return("", nil)
				m.products.On("ExistsByBaseDesignation", mock.Anything, "RU.TEST.01001").Return(true, nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "sequence exhausted",
			in: RegisterProductInput{Name: "Изделие", Standard: model.StandardESKD,
				Scope: model.ESKDScope{OrgCode: "АБВГ", ClassChar: "421411"}},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil)
				m.products.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
				m.products.On("MaxSequence", mock.Anything, mock.Anything).Return("999999", nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:       "missing scope fields",
			in:         RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: model.ESPDScope{}},
			setupMocks: func(m productMocks) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "malformed override",
			in:         RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: model.ESPDScope{Classifier: "01", SequentialPart: "12"}},
			setupMocks: func(m productMocks) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "scope of another standard",
			in:         RegisterProductInput{Name: "Система", Standard: model.StandardESKD, Scope: espd},
			setupMocks: func(m productMocks) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name: "repository failure is hidden",
			in:   RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: espd},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil)
				m.products.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("db fail"))
			},
			wantErr: apperr.ErrInternal,
		},
		{
			name: "lock failure is hidden",
			in:   RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: espd},
			setupMocks: func(m productMocks) {
				m.tx.On("InScope", mock.Anything, mock.Anything).Return(errors.New("conn reset"))
			},
			wantErr: apperr.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newProductService(t, Options{ESPDOrgCode: "RU.TEST"})
			tt.setupMocks(m)

			p, err := svc.Register(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBase, p.BaseDesignation)
		})
	}
}

func TestProductService_Register_RetriesConcurrentInsert(t *testing.T) {
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	svc, m := newProductService(t, Options{ESPDOrgCode: "RU.TEST", Metrics: metrics})
	scope := model.ESPDScope{Classifier: "02"}

	m.tx.On("InScope", mock.Anything, "product:ЕСПД:02").Return(nil).Twice()
	m.products.On("ExistsByName", mock.Anything, "Система", model.StandardESPD).Return(false, nil).Twice()
	m.products.On("MaxSequence", mock.Anything, designation.ForProduct(scope)).Return("", nil).Once()
	m.products.On("MaxSequence", mock.Anything, designation.ForProduct(scope)).Return("001", nil).Once()
	m.products.On("ExistsByBaseDesignation", mock.Anything, "RU.TEST.02001").Return(false, nil).Once()
	m.products.On("ExistsByBaseDesignation", mock.Anything, "RU.TEST.02002").Return(false, nil).Once()
	m.products.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.BaseDesignation == "RU.TEST.02001"
	})).Return(nil, fmt.Errorf("%w: uq_products_scope_sequence", repository.ErrUniqueViolation)).Once()
	m.products.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.BaseDesignation == "RU.TEST.02002"
	})).Return(&model.Product{ID: "p-1", Standard: model.StandardESPD, BaseDesignation: "RU.TEST.02002"}, nil).Once()

	p, err := svc.Register(context.Background(), RegisterProductInput{Name: "Система", Standard: model.StandardESPD, Scope: scope})

	require.NoError(t, err)
	assert.Equal(t, "RU.TEST.02002", p.BaseDesignation)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.retries.WithLabelValues("product")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.assigned.WithLabelValues("product", "ЕСПД")))
}

func TestProductService_Register_UniqueViolation(t *testing.T) {
	unique := &repository.ConstraintError{Err: repository.ErrUniqueViolation, Constraint: "uq_products_base_designation"}

	t.Run("override conflicts without retry", func(t *testing.T) {
		svc, m := newProductService(t, Options{})
		m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil).Once()
		m.products.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
		m.products.On("ExistsByBaseDesignation", mock.Anything, "ORG.CC.010").Return(false, nil).Once()
		m.products.On("Create", mock.Anything, mock.Anything).Return(nil, unique).Once()

		_, err := svc.Register(context.Background(), RegisterProductInput{Name: "Стенд", Standard: model.StandardGOST34,
			Scope: model.GOST34Scope{OrgCode: "ORG", ClassCode: "CC", RegNum: "010"}})

		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.ErrorContains(t, err, "designation ORG.CC.010 is already taken")
	})

	t.Run("override losing the name race reports the name", func(t *testing.T) {
		svc, m := newProductService(t, Options{})
		m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil).Once()
		m.products.On("ExistsByName", mock.Anything, "Стенд", model.StandardGOST34).Return(false, nil).Once()
		m.products.On("ExistsByBaseDesignation", mock.Anything, "ORG.CC.010").Return(false, nil).Once()
		m.products.On("Create", mock.Anything, mock.Anything).
			Return(nil, &repository.ConstraintError{Err: repository.ErrUniqueViolation, Constraint: repository.ConstraintProductNameStandard}).Once()

		_, err := svc.Register(context.Background(), RegisterProductInput{Name: "Стенд", Standard: model.StandardGOST34,
			Scope: model.GOST34Scope{OrgCode: "ORG", ClassCode: "CC", RegNum: "010"}})

		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.ErrorContains(t, err, `product "Стенд" is already registered under ГОСТ 34`)
		assert.NotContains(t, err.Error(), "designation")
	})

	t.Run("exhausted retries surface as conflict", func(t *testing.T) {
		svc, m := newProductService(t, Options{MaxRetries: 2})
		m.tx.On("InScope", mock.Anything, mock.Anything).Return(nil).Times(3)
		m.products.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Times(3)
		m.products.On("MaxSequence", mock.Anything, mock.Anything).Return("", nil).Times(3)
		m.products.On("ExistsByBaseDesignation", mock.Anything, mock.Anything).Return(false, nil).Times(3)
		m.products.On("Create", mock.Anything, mock.Anything).Return(nil, unique).Times(3)

		_, err := svc.Register(context.Background(), RegisterProductInput{Name: "Стенд", Standard: model.StandardGOST34,
			Scope: model.GOST34Scope{OrgCode: "ORG", ClassCode: "CC"}})

		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		q          ListQuery
		setupMocks func(m productMocks)
		wantErr    error
		checkRes   func(t *testing.T, res *ListResult[model.Product])
	}{
		{
			name: "defaults",
			setupMocks: func(m productMocks) {
				m.products.On("List", mock.Anything,
					repository.ProductFilter{Standard: model.StandardESKD, Search: "стенд", SortOrder: repository.SortDesc},
					repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Product]{Items: []model.Product{{ID: "1"}, {ID: "2"}}, Total: 2}, nil)
			},
			checkRes: func(t *testing.T, res *ListResult[model.Product]) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 2, res.Total)
				assert.Equal(t, 1, res.Page)
				assert.Equal(t, 10, res.Limit)
			},
		},
		{
			name: "page to offset",
			q:    ListQuery{Page: 3, Limit: 20, SortBy: "name", SortOrder: "asc"},
			setupMocks: func(m productMocks) {
				m.products.On("List", mock.Anything,
					repository.ProductFilter{Standard: model.StandardESKD, Search: "стенд", SortBy: "name", SortOrder: repository.SortAsc},
					repository.PageQuery{Limit: 20, Offset: 40}).
					Return(&repository.PageResult[model.Product]{Items: []model.Product{}, Total: 41}, nil)
			},
			checkRes: func(t *testing.T, res *ListResult[model.Product]) {
				assert.Equal(t, 3, res.Page)
				assert.Equal(t, 41, res.Total)
			},
		},
		{
			name:       "limit above maximum",
			q:          ListQuery{Limit: 101},
			setupMocks: func(m productMocks) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "unknown sort order",
			q:          ListQuery{SortOrder: "sideways"},
			setupMocks: func(m productMocks) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name: "repository error",
			setupMocks: func(m productMocks) {
				m.products.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: apperr.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newProductService(t, Options{})
			tt.setupMocks(m)

			res, err := svc.List(ctx, ProductFilter{Standard: model.StandardESKD, Search: " стенд "}, tt.q)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.checkRes(t, res)
		})
	}
}

func TestProductService_Get(t *testing.T) {
	svc, m := newProductService(t, Options{})
	m.products.On("FindByID", mock.Anything, "p-1").Return(&model.Product{ID: "p-1"}, nil)
	m.products.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	p, err := svc.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductService_UpdateComment(t *testing.T) {
	svc, m := newProductService(t, Options{})
	comment := "  в работе "
	m.products.On("UpdateComment", mock.Anything, "p-1", mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == "в работе"
	})).Return(&model.Product{ID: "p-1"}, nil)
	m.products.On("UpdateComment", mock.Anything, "p-1", (*string)(nil)).Return(&model.Product{ID: "p-1"}, nil)
	m.products.On("UpdateComment", mock.Anything, "missing", mock.Anything).Return(nil, sql.ErrNoRows)

	_, err := svc.UpdateComment(context.Background(), "p-1", &comment)
	assert.NoError(t, err)

	blank := "   "
	_, err = svc.UpdateComment(context.Background(), "p-1", &blank)
	assert.NoError(t, err)

	_, err = svc.UpdateComment(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductService_AttachExternalTask(t *testing.T) {
	svc, m := newProductService(t, Options{})
	m.products.On("UpdateExternalTask", mock.Anything, "p-1", "TASK-42").Return(&model.Product{ID: "p-1"}, nil)

	_, err := svc.AttachExternalTask(context.Background(), "p-1", " TASK-42 ")
	assert.NoError(t, err)

	_, err = svc.AttachExternalTask(context.Background(), "p-1", "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(m productMocks)
		wantErr    error
	}{
		{
			name: "happy path",
			setupMocks: func(m productMocks) {
				m.documents.On("CountByProduct", mock.Anything, "p-1").Return(0, nil)
				m.products.On("Delete", mock.Anything, "p-1").Return(int64(1), nil)
			},
		},
		{
			name: "blocked by documents",
			setupMocks: func(m productMocks) {
				m.documents.On("CountByProduct", mock.Anything, "p-1").Return(2, nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "document inserted concurrently",
			setupMocks: func(m productMocks) {
				m.documents.On("CountByProduct", mock.Anything, "p-1").Return(0, nil)
				m.products.On("Delete", mock.Anything, "p-1").Return(int64(0), repository.ErrForeignKeyViolation)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "not found",
			setupMocks: func(m productMocks) {
				m.documents.On("CountByProduct", mock.Anything, "p-1").Return(0, nil)
				m.products.On("Delete", mock.Anything, "p-1").Return(int64(0), nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "count error",
			setupMocks: func(m productMocks) {
				m.documents.On("CountByProduct", mock.Anything, "p-1").Return(0, errors.New("db fail"))
			},
			wantErr: apperr.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newProductService(t, Options{})
			tt.setupMocks(m)

			err := svc.Delete(ctx, "p-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
