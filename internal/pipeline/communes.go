package pipeline

import (
	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/domain"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

// JoinCommunePopulation left-joins population counts onto the commune registry by the
// zero-padded INSEE code. Communes without population keep a null total.
func JoinCommunePopulation(communes, population *dataset.Table, cc CommuneColumns, pc PopulationColumns) ([]domain.CommunePopulation, error) {
	if err := communes.Require(StageCommunePopulationJoiner,
		cc.InseeCode, cc.Name, cc.PostalCode, cc.DepartmentCode, cc.DepartmentName, cc.RegionName); err != nil {
		return nil, err
	}
	if err := population.Require(StageCommunePopulationJoiner, pc.InseeCode, pc.Population); err != nil {
		return nil, err
	}
	if pc.InseeCode != cc.InseeCode {
		population = population.Rename(pc.InseeCode, cc.InseeCode)
	}

	byCode := make(map[string][]*int64, population.Len())
	for i, row := range population.Rows {
		total, err := toNullableInt(row.Get(pc.Population))
		if err != nil {
			return nil, apperrors.NewCoercionError(StageCommunePopulationJoiner, pc.Population, i, err)
		}
		code := normalizeCode(row.Get(cc.InseeCode))
		byCode[code] = append(byCode[code], total)
	}

	out := make([]domain.CommunePopulation, 0, communes.Len())
	for _, row := range communes.Rows {
		c := domain.CommunePopulation{
			CommuneInseeCode: padInsee(normalizeCode(row.Get(cc.InseeCode)), domain.InseeCodeWidth),
			CommuneName:      row.String(cc.Name),
			PostalCode:       row.String(cc.PostalCode),
			DepartmentCode:   row.String(cc.DepartmentCode),
			DepartmentName:   row.String(cc.DepartmentName),
			RegionName:       row.String(cc.RegionName),
		}

		matches := byCode[c.CommuneInseeCode]
		if len(matches) == 0 {
			out = append(out, c)
			continue
		}
		for _, total := range matches {
			m := c
			m.TotalPopulation = total
			out = append(out, m)
		}
	}
	return out, nil
}
