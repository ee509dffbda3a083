package services

import (
	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

// sampleRecords is a small two-state, two-year dataset. Kerala's groundwater
// totals 500 over its records.
func sampleRecords() []*models.Record {
	return []*models.Record{
		{
			Year: "2020-2021", StateName: "Kerala", LocationName: "Wayanad", Category: "Safe",
			TotalGWAvailability: models.NestedMetric(300),
			Rainfall:            models.NestedMetric(2800),
			RechargeWorthyArea:  models.NestedMetric(120),
			Loss:                models.NestedMetric(10),
			SafeBlocks:          models.ScalarMetric(3),
		},
		{
			Year: "2020-2021", StateName: "Kerala", LocationName: "Palakkad", Category: "Semi-Critical",
			TotalGWAvailability: models.NestedMetric(200),
			Rainfall:            models.NestedMetric(1900),
			RechargeWorthyArea:  models.NestedMetric(80),
			SafeBlocks:          models.ScalarMetric(0),
		},
		{
			Year: "2020-2021", StateName: "Punjab", LocationName: "Ludhiana", Category: "Over-Exploited",
			TotalGWAvailability: models.NestedMetric(900),
			Rainfall:            models.ScalarMetric(650),
			RechargeWorthyArea:  models.NestedMetric(60),
		},
		{
			Year: "2019-2020", StateName: "Punjab", LocationName: "Amritsar",
			TotalGWAvailability: models.NestedMetric(700),
			Rainfall:            models.ScalarMetric(600),
			Loss:                models.NestedMetric(4.5),
			SafeBlocks:          models.ScalarMetric(1),
		},
	}
}

func sampleStore() *store.Store {
	return store.New(sampleRecords())
}
