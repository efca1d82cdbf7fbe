// Command gen writes the typed GORM query package for the BlogSphere tables.
package main

import (
	"flag"

	"blogsphere/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gen"
)

// BlogQuerier adds hand-written queries to the generated blog DAO.
type BlogQuerier interface {
	// SELECT * FROM @@table WHERE author_id = @authorID ORDER BY created_at DESC
	FindByAuthor(authorID uuid.UUID) ([]*gen.T, error)

	// SELECT * FROM @@table WHERE tags @> jsonb_build_array(@tag::text) ORDER BY created_at DESC
	FindByTag(tag string) ([]*gen.T, error)
}

func main() {
	outPath := flag.String("out", "./internal/infra/persistence/postgres/query", "output directory of the generated package")
	flag.Parse()

	g := gen.NewGenerator(gen.Config{
		OutPath:       *outPath,
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable: true,
	})

	g.ApplyBasic(model.All()...)
	g.ApplyInterface(func(BlogQuerier) {}, model.BlogModel{})

	g.Execute()
}
