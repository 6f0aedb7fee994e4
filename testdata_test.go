package qpl_test

import "github.com/qplang/qpl"

// concertSinger builds the schema used throughout the package's tests,
// mirroring the fixture original_source/src/schemas.rs uses for its own
// parser tests.
func concertSinger() *qpl.SqlSchema {
	columnNames := []string{
		"Stadium_ID", "Location", "Name", "Capacity", "Highest", "Lowest", "Average",
		"Singer_ID", "Name", "Country", "Song_Name", "Song_release_year", "Age", "Is_male",
		"concert_ID", "concert_Name", "Theme", "Stadium_ID", "Year",
		"concert_ID", "Singer_ID",
	}
	columnTypes := []qpl.ColumnType{
		qpl.Number, qpl.Text, qpl.Text, qpl.Number, qpl.Number, qpl.Number, qpl.Number,
		qpl.Number, qpl.Text, qpl.Text, qpl.Text, qpl.Text, qpl.Number, qpl.Others,
		qpl.Number, qpl.Text, qpl.Text, qpl.Number, qpl.Number,
		qpl.Number, qpl.Number,
	}
	columnToTable := []int{
		0, 0, 0, 0, 0, 0, 0,
		1, 1, 1, 1, 1, 1, 1,
		2, 2, 2, 2, 2,
		3, 3,
	}
	return &qpl.SqlSchema{
		DbID:          "concert_singer",
		TableNames:    []string{"stadium", "singer", "concert", "singer_in_concert"},
		ColumnNames:   columnNames,
		ColumnTypes:   columnTypes,
		ColumnToTable: columnToTable,
		ForeignKeys:   [][2]int{{17, 0}, {20, 7}, {19, 14}},
		PrimaryKeys:   []int{0, 7, 14, 19},
	}
}

func registryWith(schemas ...*qpl.SqlSchema) *qpl.SchemaRegistry {
	r := qpl.NewSchemaRegistry()
	for _, s := range schemas {
		r.Register(s)
	}
	return r
}

var positiveQpls = []string{
	"#1 = Scan Table [ stadium ] Output [ Stadium_ID , Capacity , Name ] ; #2 = Scan Table [ concert ] Predicate [ Year >= 2014 ] Output [ Stadium_ID , Year ] ; #3 = Aggregate [ #2 ] GroupBy [ Stadium_ID ] Output [ Stadium_ID , countstar AS Count_Star ] ; #4 = Join [ #1 , #3 ] Predicate [ #3.Stadium_ID = #1.Stadium_ID ] Output [ #1.Name , #3.Count_Star , #1.Capacity ] ; #5 = TopSort [ #4 ] Rows [ 1 ] OrderBy [ Count_Star DESC ] Output [ Capacity , Count_Star , Name ]",
	"#1 = Scan Table [ stadium ] Output [ Stadium_ID , Name ] ; #2 = Scan Table [ concert ] Output [ Stadium_ID ] ; #3 = Except [ #1 , #2 ] Predicate [ #2.Stadium_ID IS NULL OR #1.Stadium_ID = #2.Stadium_ID ] Output [ #1.Name ]",
	"#1 = Scan Table [ singer ] Predicate [ Country = 'france' ] Output [ Age , Country ] ; #2 = Aggregate [ #1 ] Output [ AVG(Age) AS Avg_Age , MAX(Age) AS Max_Age , MIN(Age) AS Min_Age ]",
	"#1 = Scan Table [ singer ] Output [ Singer_ID , Name ] ; #2 = Scan Table [ singer_in_concert ] Output [ Singer_ID ] ; #3 = Aggregate [ #2 ] GroupBy [ Singer_ID ] Output [ Singer_ID , countstar AS Count_Star ] ; #4 = Join [ #1 , #3 ] Predicate [ #3.Singer_ID = #1.Singer_ID ] Output [ #1.Name , #3.Count_Star ]",
	"#1 = Scan Table [ stadium ] Distinct [ true ] Output [ Name ] ; #2 = Scan Table [ stadium ] Output [ Stadium_ID , Name ] ; #3 = Scan Table [ concert ] Predicate [ Year = 2014 ] Output [ Stadium_ID , Year ] ; #4 = Join [ #2 , #3 ] Predicate [ #3.Stadium_ID = #2.Stadium_ID ] Distinct [ true ] Output [ #2.Name ] ; #5 = Except [ #1 , #4 ] Predicate [ #1.Name = #4.Name ] Output [ #1.Name ]",
	"#1 = Scan Table [ stadium ] Predicate [ Capacity >= 5000 AND Capacity <= 10000 ] Output [ Location , Capacity , Name ]",
	"#1 = Scan Table [ stadium ] Output [ Stadium_ID , Name ] ; #2 = Scan Table [ concert ] Output [ Stadium_ID ] ; #3 = Join [ #1 , #2 ] Predicate [ #2.Stadium_ID = #1.Stadium_ID ] Output [ #2.Stadium_ID , #1.Name ] ; #4 = Aggregate [ #3 ] GroupBy [ Stadium_ID ] Output [ countstar AS Count_Star , Name ]",
	"#1 = Scan Table [ stadium ] Output [ Average , Capacity ] ; #2 = Aggregate [ #1 ] GroupBy [ Average ] Output [ Average , MAX(Capacity) AS Max_Capacity ]",
}

var negativeQpls = []string{
	"#1 = Scan Table [ stadium ] Output [ Name, Capacity, Stadium_ID ] ; #2 = Scan Table [ concert ] Predicate [ Year >= 2014 ] Output [ Stadium_ID, Year ] ; #3 = Join [ #1, #2 ] Predicate [ #2.Stadium_ID = #1.Stadium_ID ] Output [ #1.Name, #1.Capacity ] ; #4 = Aggregate [ #3 ] GroupBy [ Name ] Output [ Name, countstar AS Count_Star ] ; #5 = TopSort [ #4 ] Rows [ 1 ] OrderBy [ Count_Star DESC ] Output [ Name, Count_Star, Capacity ]",
	"#1 = Scan Table [ stadium ] Output [ Location, Capacity, Name ] ; #2 = Aggregate [ #1 ] GroupBy [ Capacity ] Output [ Capacity, countstar AS Count_Star, Location ] ; #3 = Filter [ #2 ] Predicate [ Count_Star < 10000.0 ] Output [ Location, Count_Star, Name ]",
	"#1 = Scan Table [ concert ] Output [ Concert_Name, Theme ] ; #2 = Scan Table [ singer_in_concert ] Output [ Concert_ID, Singer_ID ] ; #3 = Join [ #1, #2 ] Predicate [ #2.Concert_ID = #1.Concert_ID ] Output [ #1.Concert_Name, #1.Theme ] ; #4 = Aggregate [ #3 ] GroupBy [ Concert_Name ] Output [ Concert_Name, countstar AS Count_Star ]",
	"#1 = Scan Table [ singer ] Output [ Age, Song_Name ] ; #2 = Aggregate [ #1 ] GroupBy [ Age ] Output [ Age, AVG(Age) AS Avg_Age ] ; #3 = TopSort [ #2 ] Rows [ 1 ] OrderBy [ Avg_Age DESC ] Output [ Age, Song_Name ]",
	"#1 = Scan Table [ singer ] Output [ Name, Singer_ID ] ; #2 = Scan Table [ concert ] Predicate [ Year = 2014 ] Output [ Year, Concert_ID ] ; #3 = Join [ #1, #2 ] Predicate [ #2.Concert_ID = #1.Concert_ID ] Output [ #2.Name ]",
	"#1 = Scan Table [ singer ] Output [ Song_Name, Age ] ; #2 = TopSort [ #1 ] Rows [ 1 ] OrderBy [ Age DESC ] Output [ Song_Name, Age, Song_Release_Year ]",
}
