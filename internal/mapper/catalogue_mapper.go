package mapper

import (
	"github.com/pgvector/pgvector-go"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/model"
)

type CatalogueMapper struct{}

func NewCatalogueMapper() *CatalogueMapper {
	return &CatalogueMapper{}
}

func (m *CatalogueMapper) TyreToEntity(t *model.Tyre) *entity.Tyre {
	if t == nil {
		return nil
	}
	return &entity.Tyre{
		Id:          t.Id,
		ModelName:   t.ModelName,
		Dimension:   t.Dimension,
		LoadIndex:   t.LoadIndex,
		SpeedRating: t.SpeedRating,
		MRP:         t.MRP,
		VehicleType: t.VehicleType,
		Segment:     t.Segment,
	}
}

func (m *CatalogueMapper) TyresToEntities(tyres []model.Tyre) []entity.Tyre {
	out := make([]entity.Tyre, 0, len(tyres))
	for i := range tyres {
		out = append(out, *m.TyreToEntity(&tyres[i]))
	}
	return out
}

func (m *CatalogueMapper) DealerToEntity(d *model.Dealer) *entity.Dealer {
	if d == nil {
		return nil
	}
	return &entity.Dealer{
		Id:        d.Id,
		Name:      d.Name,
		Address:   d.Address,
		City:      d.City,
		Pincode:   d.Pincode,
		Phone:     d.Phone,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
	}
}

func (m *CatalogueMapper) DealersToEntities(dealers []model.Dealer) []entity.Dealer {
	out := make([]entity.Dealer, 0, len(dealers))
	for i := range dealers {
		out = append(out, *m.DealerToEntity(&dealers[i]))
	}
	return out
}

func (m *CatalogueMapper) DocToEntity(d *model.CorpusDoc) *entity.CorpusDoc {
	if d == nil {
		return nil
	}
	return &entity.CorpusDoc{
		Id:       d.Id,
		Content:  d.Content,
		Metadata: d.Metadata,
	}
}

func (m *CatalogueMapper) DocToModel(d *entity.CorpusDoc) *model.CorpusDoc {
	if d == nil {
		return nil
	}
	return &model.CorpusDoc{
		Id:       d.Id,
		Content:  d.Content,
		Metadata: d.Metadata,
	}
}

func (m *CatalogueMapper) EmbeddingToEntity(e *model.CorpusEmbedding) *entity.CorpusEmbedding {
	if e == nil {
		return nil
	}
	return &entity.CorpusEmbedding{
		Id:       e.Id,
		DocId:    e.DocId,
		Document: e.Document,
		Values:   e.EmbeddingValue.Slice(),
	}
}

func (m *CatalogueMapper) EmbeddingToModel(e *entity.CorpusEmbedding) *model.CorpusEmbedding {
	if e == nil {
		return nil
	}
	return &model.CorpusEmbedding{
		Id:             e.Id,
		DocId:          e.DocId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Values),
	}
}
